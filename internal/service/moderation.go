package service

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/store"
	"Ripple/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
)

type Decision int

const (
	NoAction Decision = iota
	Hide
)

func (d Decision) String() string {
	if d == Hide {
		return "hide"
	}
	return "no_action"
}

// Decide 纯函数：达到阈值且尚未隐藏时隐藏
func Decide(reportCount int64, isHidden bool) Decision {
	if reportCount >= consts.ReportHideThreshold && !isHidden {
		return Hide
	}
	return NoAction
}

// reportTargets 举报类型 -> 被举报内容所在集合
var reportTargets = map[string]string{
	model.ReportTypePost:    model.Post{}.CollectionName(),
	model.ReportTypeComment: model.Comment{}.CollectionName(),
	model.ReportTypeUser:    model.User{}.CollectionName(),
}

type Moderator interface {
	Review(ctx context.Context, reportType, reportedID string) (Decision, error)
}

type moderatorImpl struct {
	reportRepo repository.ReportRepo
	userRepo   repository.UserRepo
	notifier   Notifier
}

func NewModerator(reportRepo repository.ReportRepo, userRepo repository.UserRepo, notifier Notifier) Moderator {
	return &moderatorImpl{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// Review 处理一条新举报：计数 +1，重读后判定，命中则隐藏并通知所有管理员
// 隐藏是一次条件更新 (isHidden != true)，并发举报只有一个调用方会真正触发通知
func (s *moderatorImpl) Review(ctx context.Context, reportType, reportedID string) (Decision, error) {
	col, ok := reportTargets[reportType]
	if !ok || reportedID == "" {
		log.WarnContext(ctx, "unknown report target", "report_type", reportType, "reported_id", reportedID)
		return NoAction, nil
	}

	if err := s.reportRepo.IncrReportCount(ctx, col, reportedID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NoAction, nil
		}
		return NoAction, err
	}

	state, err := s.reportRepo.GetModeration(ctx, col, reportedID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NoAction, nil
		}
		return NoAction, err
	}
	if Decide(state.ReportCount, state.IsHidden) != Hide {
		return NoAction, nil
	}

	won, err := s.reportRepo.HideIfVisible(ctx, col, reportedID)
	if err != nil {
		return NoAction, err
	}
	if !won {
		return NoAction, nil
	}
	log.InfoContext(ctx, "content auto-hidden",
		"report_type", reportType,
		"reported_id", reportedID,
		"report_count", state.ReportCount)

	return Hide, s.notifyAdmins(ctx, reportType, reportedID)
}

func (s *moderatorImpl) notifyAdmins(ctx context.Context, reportType, reportedID string) error {
	admins, err := s.userRepo.GetAdmins(ctx)
	if err != nil {
		return err
	}

	notice := &Notice{
		Type:       model.NotificationModeration,
		Message:    fmt.Sprintf("Content auto-hidden due to multiple reports (%s: %s)", reportType, reportedID),
		ReportType: reportType,
		ReportedID: reportedID,
	}
	var errs []error
	for _, admin := range admins {
		if err = s.notifier.Notify(ctx, admin, notice); err != nil {
			errs = append(errs, fmt.Errorf("notify admin %s: %w", admin.ID, err))
		}
	}
	return errors.Join(errs...)
}
