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
	"time"
)

type AnalyticsSnapshot struct {
	TotalUsers     int64     `json:"totalUsers"`
	TotalPosts     int64     `json:"totalPosts"`
	TotalComments  int64     `json:"totalComments"`
	TotalGroups    int64     `json:"totalGroups"`
	TotalReports   int64     `json:"totalReports"`
	ActiveUsers    int64     `json:"activeUsers"`
	PendingReports int64     `json:"pendingReports"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

type AnalyticsService interface {
	GetUserAnalytics(ctx context.Context, callerID string) (*AnalyticsSnapshot, error)
}

type analyticsServiceImpl struct {
	userRepo  repository.UserRepo
	postRepo  repository.PostRepo
	statsRepo repository.StatsRepo
	now       store.Clock
}

func NewAnalyticsService(userRepo repository.UserRepo, postRepo repository.PostRepo, statsRepo repository.StatsRepo, now store.Clock) AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &analyticsServiceImpl{
		userRepo:  userRepo,
		postRepo:  postRepo,
		statsRepo: statsRepo,
		now:       now,
	}
}

// GetUserAnalytics 仅管理员可调用；统计失败统一返回 ErrAnalyticsInternal
func (s *analyticsServiceImpl) GetUserAnalytics(ctx context.Context, callerID string) (*AnalyticsSnapshot, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}

	caller, err := s.userRepo.GetUserById(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPermissionDenied
		}
		log.ErrorContext(ctx, "load analytics caller failed", "caller", callerID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalyticsInternal, err)
	}
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	snapshot, err := s.collect(ctx)
	if err != nil {
		log.ErrorContext(ctx, "collect analytics failed", "caller", callerID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalyticsInternal, err)
	}
	return snapshot, nil
}

func (s *analyticsServiceImpl) collect(ctx context.Context) (*AnalyticsSnapshot, error) {
	now := s.now()
	snapshot := &AnalyticsSnapshot{GeneratedAt: now}

	totals := []struct {
		collection string
		dst        *int64
	}{
		{model.User{}.CollectionName(), &snapshot.TotalUsers},
		{model.Post{}.CollectionName(), &snapshot.TotalPosts},
		{model.Comment{}.CollectionName(), &snapshot.TotalComments},
		{model.Group{}.CollectionName(), &snapshot.TotalGroups},
		{model.Report{}.CollectionName(), &snapshot.TotalReports},
	}
	for _, t := range totals {
		n, err := s.statsRepo.CountAll(ctx, t.collection)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", t.collection, err)
		}
		*t.dst = n
	}

	since := now.AddDate(0, 0, -consts.ActiveUserWindowDays)
	authors, err := s.postRepo.GetAuthorIdsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("active users: %w", err)
	}
	snapshot.ActiveUsers = int64(len(authors))

	if snapshot.PendingReports, err = s.statsRepo.CountPendingReports(ctx); err != nil {
		return nil, fmt.Errorf("pending reports: %w", err)
	}
	return snapshot, nil
}
