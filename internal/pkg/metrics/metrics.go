package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 触发器分发
	TriggerEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripple_trigger_events_total",
			Help: "Total number of mutation events received by the dispatcher",
		},
		[]string{"collection", "op", "outcome"}, // outcome: dispatched, unrouted, duplicate
	)

	TriggerHandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripple_trigger_handler_duration_seconds",
			Help:    "Duration of a single fan-out handler invocation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	TriggerHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripple_trigger_handler_errors_total",
			Help: "Total number of fan-out handler failures",
		},
		[]string{"handler", "kind"}, // kind: missing, failed, panic
	)

	// 推送
	PushSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripple_push_send_total",
			Help: "Total number of push sends by result",
		},
		[]string{"result"}, // ok, failed, rejected
	)

	// 通知清理
	SweepDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ripple_sweep_deleted_total",
			Help: "Total number of expired notifications deleted by the retention sweep",
		},
	)

	SweepFailedUsers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ripple_sweep_failed_users_total",
			Help: "Total number of per-user sweep batches that failed",
		},
	)
)
