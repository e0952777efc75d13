package push

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
)

// FCMGateway Firebase Cloud Messaging 实现
type FCMGateway struct {
	client  *messaging.Client
	timeout time.Duration
}

func NewFCMGateway(client *messaging.Client, timeout time.Duration) *FCMGateway {
	return &FCMGateway{client: client, timeout: timeout}
}

func (s *FCMGateway) Send(ctx context.Context, token string, msg *Message) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if recipientError(err) {
		return fmt.Errorf("%w: %w", ErrInvalidRecipient, err)
	}
	return err
}

// recipientError token 级别的错误，不代表 FCM 本身不可用
func recipientError(err error) bool {
	return err != nil && (messaging.IsUnregistered(err) ||
		messaging.IsInvalidArgument(err) ||
		messaging.IsSenderIDMismatch(err))
}
