package kafka

import (
	"Ripple/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 单个消费组订阅全部变更主题
type ConsumerManager struct {
	consumer sarama.ConsumerGroup
	handler  sarama.ConsumerGroupHandler
	topics   []string
}

func NewConsumerManager(cfg config.KafkaConfig, dispatcher Dispatcher) (*ConsumerManager, error) {
	consumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.Consumer.GroupID, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &ConsumerManager{
		consumer: consumer,
		handler:  NewChangeHandler(dispatcher),
		topics:   cfg.Consumer.Topics,
	}, nil
}

// Start 阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.consumer.Errors() {
			log.Error("kafka consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("change consumer started", "topics", m.topics)
		for {
			if err := m.consumer.Consume(ctx, m.topics, m.handler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.consumer.Close(); err != nil {
		log.Error("Failed to close change consumer", "err", err)
	}
	return nil
}
