// Package push 封装设备推送网关。
//
// 调用方视角是发后即忘：Send 的错误只用于记录日志，不影响业务结果。
package push

import (
	"context"
	"errors"
)

// ErrInvalidRecipient 设备 token 失效或不属于本项目，只影响这一个接收者
var ErrInvalidRecipient = errors.New("push recipient rejected")

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Gateway 向单个设备 token 发送一条推送
type Gateway interface {
	Send(ctx context.Context, token string, msg *Message) error
}
