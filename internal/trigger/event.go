// Package trigger 把文档变更事件分发给静态绑定的处理函数。
//
// 每个 (集合, 变更类型) 对应一组路由，路由之间互相隔离：
// 一个处理函数失败或 panic 不会影响同一事件的其他处理函数。
package trigger

import (
	"time"

	"github.com/goccy/go-json"
)

// Op 变更类型，沿用 Canal 的取值
type Op string

const (
	INSERT Op = "INSERT"
	UPDATE Op = "UPDATE"
	DELETE Op = "DELETE"
)

// Event 一次文档变更
type Event struct {
	ID         string // 投递 ID，用于去重
	Collection string
	Op         Op
	DocID      string
	Data       []byte // 变更后文档 (删除时为删除前快照)
	Before     []byte // 仅 UPDATE 携带
	Timestamp  time.Time
}

func (e *Event) DataTo(v any) error {
	return json.Unmarshal(e.Data, v)
}

func (e *Event) BeforeTo(v any) error {
	if len(e.Before) == 0 {
		return nil
	}
	return json.Unmarshal(e.Before, v)
}
