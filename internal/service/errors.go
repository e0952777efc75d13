package service

import (
	"errors"
)

const (
	Unauthorized        = 401
	Forbidden           = 403
	InternalServerError = 500
)

var (
	ErrUnauthenticated   = errors.New("user must be authenticated")
	ErrPermissionDenied  = errors.New("only admins can access analytics")
	ErrAnalyticsInternal = errors.New("failed to get analytics")
)

var ErrorMap = map[error]int{
	ErrUnauthenticated:   Unauthorized,
	ErrPermissionDenied:  Forbidden,
	ErrAnalyticsInternal: InternalServerError,
}

// CodeOf 返回错误链上第一个已登记的业务码
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
