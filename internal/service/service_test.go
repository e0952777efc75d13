package service

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/push/pushtest"
	"Ripple/internal/pkg/store"
	"Ripple/internal/repository"
	"context"
	"testing"
	"time"
)

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *store.MemoryStore
	push     *pushtest.Recorder
	notifier Notifier
	repos    struct {
		user         repository.UserRepo
		post         repository.PostRepo
		report       repository.ReportRepo
		stats        repository.StatsRepo
		notification repository.NotificationRepo
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: store.NewMemoryStore(func() time.Time { return testNow }),
		push:  &pushtest.Recorder{},
	}
	f.repos.user = repository.NewUserRepo(f.store)
	f.repos.post = repository.NewPostRepo(f.store)
	f.repos.report = repository.NewReportRepo(f.store)
	f.repos.stats = repository.NewStatsRepo(f.store)
	f.repos.notification = repository.NewNotificationRepo(f.store)
	f.notifier = NewNotifier(f.repos.notification, f.push)
	return f
}

func (f *fixture) put(t *testing.T, col, id string, fields store.Fields) {
	t.Helper()
	if err := f.store.Set(context.Background(), store.Collection(col).Doc(id), fields); err != nil {
		t.Fatalf("seed %s/%s: %v", col, id, err)
	}
}

func (f *fixture) notifications(t *testing.T, uid string) []*model.Notification {
	t.Helper()
	list, err := store.QueryAs[model.Notification](context.Background(), f.store,
		store.SubCollection(model.Notification{}.CollectionName(), uid))
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return list
}
