package logger

import (
	"Ripple/internal/api/config"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// accessLine 访问日志行，字段与 slog JSON 输出对齐，便于 Logstash 统一解析
type accessLine struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id,omitempty"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	ClientIP    string `json:"client_ip,omitempty"`
	Error       string `json:"error,omitempty"`
}

func accessLevel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "ERROR"
	case status >= http.StatusBadRequest:
		return "WARN"
	}
	return "INFO"
}

func SetupGin(r *gin.Engine, cfg config.LogstashConfig) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: LogWriter,
		Formatter: func(p gin.LogFormatterParams) string {
			var traceID string
			if id, ok := p.Keys[TraceIDKey].(string); ok {
				traceID = id
			}
			if traceID == "" && p.Request != nil {
				traceID = TraceID(p.Request.Context())
			}

			line, err := json.Marshal(accessLine{
				Time:        p.TimeStamp.Format(time.RFC3339),
				Level:       accessLevel(p.StatusCode),
				Msg:         "GIN_ACCESS",
				TraceID:     traceID,
				LogToken:    cfg.Token,
				TargetIndex: cfg.Index,
				Method:      p.Method,
				Path:        p.Path,
				Status:      p.StatusCode,
				Latency:     p.Latency.String(),
				ClientIP:    p.ClientIP,
				Error:       p.ErrorMessage,
			})
			if err != nil {
				return ""
			}
			return string(line) + "\n"
		},
	}))

	r.Use(gin.Recovery())
}
