package api

import (
	"Ripple/internal/api/config"
	"Ripple/internal/api/dto"
	"Ripple/internal/api/middleware"
	"Ripple/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, verifier middleware.TokenVerifier, logCfg config.LogstashConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/metrics", "/api/ping"))
	logger.SetupGin(r, logCfg)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.Response{Code: http.StatusOK, Message: "pong"})
		})

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(middleware.FirebaseAuthMiddleware(verifier))
		{
			analyticsGroup.POST("/users", group.AnalyticsHandler.GetUserAnalytics)
		}
	}

	return r
}
