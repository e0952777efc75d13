package redis

import (
	"Ripple/internal/pkg/consts"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeliveryGuard 记录已处理的事件 ID，拦截消息队列的重复投递
type DeliveryGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeliveryGuard(rdb *redis.Client, ttl time.Duration) *DeliveryGuard {
	return &DeliveryGuard{rdb: rdb, ttl: ttl}
}

// FirstDelivery 第一次见到 eventID 时返回 true
func (s *DeliveryGuard) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	return s.rdb.SetNX(ctx, consts.TriggerDeliveredKey+eventID, 1, s.ttl).Result()
}

// Release 删除标记，事件未处理完成时调用
func (s *DeliveryGuard) Release(ctx context.Context, eventID string) error {
	return s.rdb.Del(ctx, consts.TriggerDeliveredKey+eventID).Err()
}
