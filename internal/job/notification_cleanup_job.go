package job

import (
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/logger"
	"Ripple/internal/pkg/metrics"
	"Ripple/internal/pkg/store"
	"Ripple/internal/repository"
	"context"
	log "log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetentionDays = 30
	defaultWorkers       = 8
	lockExpiration       = 30 * time.Minute
)

// Locker 多副本部署时保证同一时刻只有一个实例在清理
type Locker interface {
	TryLock(ctx context.Context, key, token string, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key, token string) error
}

type SweepResult struct {
	Users   int
	Deleted int
	Failed  int
}

// NotificationCleanupJob 删除超过保留期的通知
type NotificationCleanupJob struct {
	userRepo         repository.UserRepo
	notificationRepo repository.NotificationRepo
	locker           Locker
	retention        time.Duration
	workers          int
	now              store.Clock
}

func NewNotificationCleanupJob(
	userRepo repository.UserRepo,
	notificationRepo repository.NotificationRepo,
	locker Locker,
	retentionDays, workers int,
	now store.Clock,
) *NotificationCleanupJob {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationCleanupJob{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		locker:           locker,
		retention:        time.Duration(retentionDays) * 24 * time.Hour,
		workers:          workers,
		now:              now,
	}
}

func (s *NotificationCleanupJob) Run() {
	traceID := "job-notification-cleanup-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	if s.locker != nil {
		token := uuid.NewString()
		ok, err := s.locker.TryLock(ctx, consts.NotificationCleanupLock, token, lockExpiration, 1)
		if err != nil {
			log.ErrorContext(ctx, "acquire notification cleanup lock error", "err", err)
			return
		}
		if !ok {
			log.InfoContext(ctx, "notification cleanup is running elsewhere, skip")
			return
		}
		defer func() {
			if err := s.locker.UnLock(ctx, consts.NotificationCleanupLock, token); err != nil {
				log.ErrorContext(ctx, "release notification cleanup lock error", "err", err)
			}
		}()
	}

	if _, err := s.Sweep(ctx); err != nil {
		log.ErrorContext(ctx, "notification cleanup failed", "err", err)
	}
}

// Sweep 逐用户删除 createdAt 早于 now-保留期 的通知
// 单个用户失败只记录，不影响其他用户
func (s *NotificationCleanupJob) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := s.now().Add(-s.retention)

	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	log.InfoContext(ctx, "start notification cleanup", "users", len(users), "cutoff", cutoff)

	var deleted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, u := range users {
		uid := u.ID
		g.Go(func() error {
			n, err := s.notificationRepo.DeleteExpired(gctx, uid, cutoff)
			if err != nil {
				failed.Add(1)
				metrics.SweepFailedUsers.Inc()
				log.ErrorContext(gctx, "cleanup user notifications error", "user_id", uid, "err", err)
				return nil
			}
			if n > 0 {
				deleted.Add(int64(n))
				metrics.SweepDeletedTotal.Add(float64(n))
			}
			return nil
		})
	}
	_ = g.Wait()

	res := SweepResult{
		Users:   len(users),
		Deleted: int(deleted.Load()),
		Failed:  int(failed.Load()),
	}
	log.InfoContext(ctx, "notification cleanup finished",
		"users", res.Users,
		"deleted", res.Deleted,
		"failed", res.Failed)
	return res, nil
}
