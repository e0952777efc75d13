package trigger

import (
	"Ripple/internal/pkg/logger"
	"Ripple/internal/pkg/metrics"
	"Ripple/internal/pkg/store"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const releaseTimeout = 3 * time.Second

type HandlerFunc func(ctx context.Context, evt *Event) error

type Route struct {
	Name    string
	Handler HandlerFunc
}

type key struct {
	collection string
	op         Op
}

// Guard 拦截重复投递
// 处理未完成时调用 Release，让重新投递的事件仍能被处理
type Guard interface {
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

type Dispatcher struct {
	routes map[key][]Route
	guard  Guard
}

func NewDispatcher(guard Guard) *Dispatcher {
	return &Dispatcher{
		routes: make(map[key][]Route),
		guard:  guard,
	}
}

// Register 绑定处理函数，只在启动装配阶段调用
func (d *Dispatcher) Register(collection string, op Op, name string, fn HandlerFunc) {
	k := key{collection: collection, op: op}
	d.routes[k] = append(d.routes[k], Route{Name: name, Handler: fn})
}

func (d *Dispatcher) Routes(collection string, op Op) []Route {
	return d.routes[key{collection: collection, op: op}]
}

// Dispatch 执行事件对应的全部路由
// 处理函数的错误在此记录后吞掉，不回传给触发运行时
func (d *Dispatcher) Dispatch(ctx context.Context, evt *Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if logger.TraceID(ctx) == "" {
		ctx = logger.WithTraceID(ctx, "evt-"+evt.ID)
	}

	routes := d.Routes(evt.Collection, evt.Op)
	if len(routes) == 0 {
		metrics.TriggerEventsTotal.WithLabelValues(evt.Collection, string(evt.Op), "unrouted").Inc()
		return
	}

	var claimed bool
	if d.guard != nil {
		first, err := d.guard.FirstDelivery(ctx, evt.ID)
		if err != nil {
			log.WarnContext(ctx, "delivery guard unavailable, processing anyway", "event_id", evt.ID, "err", err)
		} else if !first {
			metrics.TriggerEventsTotal.WithLabelValues(evt.Collection, string(evt.Op), "duplicate").Inc()
			log.InfoContext(ctx, "duplicate delivery skipped", "event_id", evt.ID, "collection", evt.Collection)
			return
		}
		claimed = err == nil
	}
	metrics.TriggerEventsTotal.WithLabelValues(evt.Collection, string(evt.Op), "dispatched").Inc()

	var (
		wg     sync.WaitGroup
		failed atomic.Bool
	)
	for _, r := range routes {
		wg.Add(1)
		go func(r Route) {
			defer wg.Done()
			if !d.invoke(ctx, r, evt) {
				failed.Store(true)
			}
		}(r)
	}
	wg.Wait()

	if claimed && (failed.Load() || ctx.Err() != nil) {
		d.release(ctx, evt)
	}
}

// release 撤销去重标记，会话取消时仍需执行
func (d *Dispatcher) release(ctx context.Context, evt *Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := d.guard.Release(ctx, evt.ID); err != nil {
		log.WarnContext(ctx, "release delivery guard failed", "event_id", evt.ID, "err", err)
		return
	}
	log.InfoContext(ctx, "delivery guard released for redelivery", "event_id", evt.ID, "collection", evt.Collection)
}

// invoke 执行单个路由，返回是否处理完成 (关联文档缺失视为完成)
func (d *Dispatcher) invoke(ctx context.Context, r Route, evt *Event) (ok bool) {
	start := time.Now()
	attrs := []any{"handler", r.Name, "collection", evt.Collection, "op", evt.Op, "doc_id", evt.DocID}

	defer func() {
		metrics.TriggerHandlerDuration.WithLabelValues(r.Name).Observe(time.Since(start).Seconds())
		if p := recover(); p != nil {
			metrics.TriggerHandlerErrors.WithLabelValues(r.Name, "panic").Inc()
			log.ErrorContext(ctx, "handler panicked", append(attrs, "panic", fmt.Sprint(p))...)
			ok = false
		}
	}()

	err := r.Handler(ctx, evt)
	switch {
	case err == nil:
		log.InfoContext(ctx, "handler completed", append(attrs, "latency", time.Since(start))...)
	case errors.Is(err, store.ErrNotFound):
		// 关联文档在事件产生后被删除，属于正常竞态
		metrics.TriggerHandlerErrors.WithLabelValues(r.Name, "missing").Inc()
		log.InfoContext(ctx, "handler skipped, dependency missing", append(attrs, "err", err)...)
	default:
		metrics.TriggerHandlerErrors.WithLabelValues(r.Name, "failed").Inc()
		log.ErrorContext(ctx, "handler failed", append(attrs, "err", err)...)
		return false
	}
	return true
}
