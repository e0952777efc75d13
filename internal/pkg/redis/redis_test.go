package redis

import (
	"Ripple/internal/api/config"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// 需要真实 Redis，设置 RIPPLE_TEST_REDIS_ADDR 后运行
func newTestClient(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("RIPPLE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RIPPLE_TEST_REDIS_ADDR not set")
	}
	rdb, err := NewClient(config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLocker(rdb)
}

func TestLocker_ExclusiveUntilUnlocked(t *testing.T) {
	locker := newTestClient(t)
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	ok, err := locker.TryLock(ctx, key, "a", time.Minute, 1)
	if err != nil || !ok {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	ok, err = locker.TryLock(ctx, key, "b", time.Minute, 1)
	if err != nil || ok {
		t.Fatalf("second lock should fail: ok=%v err=%v", ok, err)
	}

	// 非持有者释放无效
	_ = locker.UnLock(ctx, key, "b")
	ok, _ = locker.TryLock(ctx, key, "b", time.Minute, 1)
	if ok {
		t.Fatal("lock released by non-owner")
	}

	_ = locker.UnLock(ctx, key, "a")
	ok, err = locker.TryLock(ctx, key, "b", time.Minute, 1)
	if err != nil || !ok {
		t.Fatalf("lock after unlock: ok=%v err=%v", ok, err)
	}
	_ = locker.UnLock(ctx, key, "b")
}

func TestDeliveryGuard_FirstDeliveryOnly(t *testing.T) {
	locker := newTestClient(t)
	guard := NewDeliveryGuard(locker.rdb, time.Minute)
	ctx := context.Background()
	id := uuid.NewString()

	first, err := guard.FirstDelivery(ctx, id)
	if err != nil || !first {
		t.Fatalf("first delivery: %v %v", first, err)
	}
	again, err := guard.FirstDelivery(ctx, id)
	if err != nil || again {
		t.Fatalf("redelivery should be rejected: %v %v", again, err)
	}

	if err = guard.Release(ctx, id); err != nil {
		t.Fatalf("release: %v", err)
	}
	retry, err := guard.FirstDelivery(ctx, id)
	if err != nil || !retry {
		t.Fatalf("released event should be accepted again: %v %v", retry, err)
	}
}
