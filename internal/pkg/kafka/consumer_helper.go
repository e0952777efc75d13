package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒批：满 batchSize 条或距上次提交超过 batchTimeout 即处理
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		processBatch(session, batch, logic)
		batch = batch[:0]
	}

	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				flush()
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			flush()
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，失败只记录不重试，全部结束后标记位点
// 会话已结束 (rebalance) 时不标记，由新的消费者重新投递
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			if err := logic(session.Context(), m); err != nil {
				log.Error("process message error",
					"topic", m.Topic,
					"partition", m.Partition,
					"offset", m.Offset,
					"err", err)
			}
		}(msg)
	}
	wg.Wait()

	if session.Context().Err() != nil {
		return
	}
	// 同一 claim 内消息同属一个分区，标记最大位点即可
	last := messages[0]
	for _, m := range messages[1:] {
		if m.Offset > last.Offset {
			last = m
		}
	}
	session.MarkMessage(last, "")
}
