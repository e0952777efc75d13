// Package pushtest 提供测试用的推送网关
package pushtest

import (
	"Ripple/internal/pkg/push"
	"context"
	"sync"
)

type Sent struct {
	Token   string
	Message push.Message
}

// Recorder 记录每一次 Send，Err 非 nil 时返回该错误
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
	Err  error
}

func (r *Recorder) Send(_ context.Context, token string, msg *push.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Token: token, Message: *msg})
	return r.Err
}

func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}
