package handler

import (
	"Ripple/internal/api/middleware"
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: s,
	}
}

// GetUserAnalytics 管理员统计
func (h *AnalyticsHandler) GetUserAnalytics(c *gin.Context) {
	callerID := c.GetString(middleware.CallerKey)

	snapshot, err := h.analyticsService.GetUserAnalytics(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, snapshot)
}
