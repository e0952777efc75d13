package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"context"
)

// StatsRepo 全量计数，供管理员统计使用
type StatsRepo interface {
	CountAll(ctx context.Context, collection string) (int64, error)
	CountPendingReports(ctx context.Context) (int64, error)
}

type StatsRepoImpl struct {
	store store.Store
}

func NewStatsRepo(s store.Store) StatsRepo {
	return &StatsRepoImpl{store: s}
}

func (s *StatsRepoImpl) CountAll(ctx context.Context, collection string) (int64, error) {
	return s.store.Count(ctx, store.Collection(collection))
}

func (s *StatsRepoImpl) CountPendingReports(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, store.Collection(model.Report{}.CollectionName()),
		store.Eq("status", model.ReportStatusPending))
}
