package kafka

import (
	"Ripple/internal/trigger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, evt *trigger.Event)
}

// ChangeHandler 把变更消息解码后交给分发器
type ChangeHandler struct {
	dispatcher Dispatcher
}

func NewChangeHandler(dispatcher Dispatcher) *ChangeHandler {
	return &ChangeHandler{dispatcher: dispatcher}
}

func (s *ChangeHandler) Setup(session sarama.ConsumerGroupSession) error {
	log.Info("change consumer setup", "member_id", session.MemberID(), "claims", session.Claims())
	return nil
}

func (s *ChangeHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("change consumer cleanup")
	return nil
}

func (s *ChangeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.handle)
}

// handle 无法解码的消息直接跳过，分发器自己吞掉处理函数的错误
func (s *ChangeHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	change, err := ToChangeMessage(msg)
	if err != nil {
		return err
	}
	evt, err := change.ToEvent()
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, evt)
	return nil
}
