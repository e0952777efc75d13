package consts

import "time"

const (
	TriggerDeliveredKey = "trigger:delivered:"
)

const (
	NotificationCleanupLock = "job:notification:cleanup:lock"
)

// DeliveryGuardTTL 事件 ID 去重记录保留时间，需覆盖消息队列最长重投窗口
const DeliveryGuardTTL = 24 * time.Hour
