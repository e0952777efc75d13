package cron

import (
	"Ripple/internal/api/config"
	"Ripple/internal/job"
	log "log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	defaultCleanupSpec = "0 2 * * *"
	defaultTimezone    = "Asia/Bangkok"
)

type Manager struct {
	engine          *cron.Cron
	cleanupSpec     string
	notificationJob *job.NotificationCleanupJob
}

func NewCronManager(cfg config.CronConfig, notificationJob *job.NotificationCleanupJob) (*Manager, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	spec := cfg.NotificationCleanup
	if spec == "" {
		spec = defaultCleanupSpec
	}
	return &Manager{
		engine:          cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{}))),
		cleanupSpec:     spec,
		notificationJob: notificationJob,
	}, nil
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.cleanupSpec, s.notificationJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Entries() []cron.Entry {
	return s.engine.Entries()
}

func (s *Manager) Location() *time.Location {
	return s.engine.Location()
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "location", s.engine.Location().String())
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// cronLogger 将 cron 内部日志接入 slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error(msg, append(keysAndValues, "err", err)...)
}
