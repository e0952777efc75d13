package kafka

import (
	"Ripple/internal/trigger"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ChangeMessage 变更流推送到 Kafka 的 JSON 数据结构
type ChangeMessage struct {
	ID         string `json:"id"`
	Database   string `json:"database"`
	Collection string `json:"collection"`
	DocID      string `json:"docId"`
	Type       string `json:"type"` // INSERT | UPDATE | DELETE
	TS         int64  `json:"ts"`   // 毫秒

	// Data 变更后的文档，删除时为删除前快照
	Data json.RawMessage `json:"data"`

	// Old 变更前的文档，仅 UPDATE 携带
	Old json.RawMessage `json:"old,omitempty"`
}

var ErrMalformedMessage = errors.New("malformed change message")

// ToChangeMessage 将kafka消息转换为变更消息结构体
func ToChangeMessage(msg *sarama.ConsumerMessage) (*ChangeMessage, error) {
	var change ChangeMessage
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	if change.Collection == "" {
		return nil, fmt.Errorf("%w: collection is empty", ErrMalformedMessage)
	}
	if change.DocID == "" && len(change.Data) == 0 {
		return nil, fmt.Errorf("%w: no document", ErrMalformedMessage)
	}
	if change.ID == "" {
		// 重投时 topic/partition/offset 不变，可作为去重 ID
		change.ID = fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}
	return &change, nil
}

func (m *ChangeMessage) ToEvent() (*trigger.Event, error) {
	op := trigger.Op(strings.ToUpper(m.Type))
	switch op {
	case trigger.INSERT, trigger.UPDATE, trigger.DELETE:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedMessage, m.Type)
	}

	evt := &trigger.Event{
		ID:         m.ID,
		Collection: m.Collection,
		Op:         op,
		DocID:      m.DocID,
		Data:       m.Data,
		Before:     m.Old,
	}
	if m.TS > 0 {
		evt.Timestamp = time.UnixMilli(m.TS)
	}
	return evt, nil
}
