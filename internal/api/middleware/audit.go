package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const maxAuditBody = 16384

// auditWriter 复制响应体前 maxAuditBody 字节用于审计
type auditWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *auditWriter) Write(b []byte) (int, error) {
	if room := maxAuditBody - w.body.Len(); room > 0 {
		w.body.Write(b[:min(room, len(b))])
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// AuditMiddleware 记录调用方、请求体与响应体，skip 中的路径 (探活、指标) 不记录
func AuditMiddleware(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(reqBody), c.Request.Body))
		}

		w := &auditWriter{ResponseWriter: c.Writer}
		c.Writer = w
		start := time.Now()

		c.Next()

		// 调用方 uid 由后续的鉴权中间件写入，请求结束后才可读
		log.InfoContext(ctx, "Audit",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("caller", c.GetString(CallerKey)),
			log.String("req_body", string(reqBody)),
			log.Int("status", w.Status()),
			log.Duration("latency", time.Since(start)),
			log.String("res_body", w.body.String()),
		)
	}
}
