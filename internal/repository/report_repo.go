package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/store"
	"context"
)

// ReportRepo 被举报内容的计数与隐藏状态
type ReportRepo interface {
	IncrReportCount(ctx context.Context, col, id string) error
	GetModeration(ctx context.Context, col, id string) (*model.Moderation, error)
	HideIfVisible(ctx context.Context, col, id string) (bool, error)
}

type ReportRepoImpl struct {
	store store.Store
}

func NewReportRepo(s store.Store) ReportRepo {
	return &ReportRepoImpl{store: s}
}

func (s *ReportRepoImpl) IncrReportCount(ctx context.Context, col, id string) error {
	return s.store.Increment(ctx, store.Collection(col).Doc(id), "reportCount", 1)
}

func (s *ReportRepoImpl) GetModeration(ctx context.Context, col, id string) (*model.Moderation, error) {
	return store.GetAs[model.Moderation](ctx, s.store, store.Collection(col).Doc(id))
}

// HideIfVisible 仅当内容尚未隐藏时置为隐藏，返回本次是否真正发生了状态切换
func (s *ReportRepoImpl) HideIfVisible(ctx context.Context, col, id string) (bool, error) {
	return s.store.UpdateWhere(ctx, store.Collection(col).Doc(id),
		[]store.Filter{store.Ne("isHidden", true)},
		store.Fields{
			"isHidden":     true,
			"hiddenAt":     store.ServerTimestamp,
			"hiddenReason": consts.AutoHiddenReason,
		})
}
