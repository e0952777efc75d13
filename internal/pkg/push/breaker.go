package push

import (
	"Ripple/internal/pkg/metrics"
	"context"
	"errors"
	log "log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

// BreakerGateway 连续失败后熔断，网关不可用时不再拖慢触发器
// 单个接收者的错误 (ErrInvalidRecipient) 不计入失败
type BreakerGateway struct {
	next Gateway
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerGateway(next Gateway, cfg BreakerConfig) *BreakerGateway {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidRecipient)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("push breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerGateway{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (s *BreakerGateway) Send(ctx context.Context, token string, msg *Message) error {
	_, err := s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, s.next.Send(ctx, token, msg)
	})
	metrics.PushSendTotal.WithLabelValues(result(err)).Inc()
	return err
}

// State 当前熔断状态
func (s *BreakerGateway) State() string {
	return s.cb.State().String()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case errors.Is(err, ErrInvalidRecipient):
		return "invalid_recipient"
	default:
		return "failed"
	}
}
