package logger

import (
	"Ripple/internal/api/config"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func TestSetupGin_WritesAccessLine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	prev := LogWriter
	LogWriter = &buf
	t.Cleanup(func() { LogWriter = prev })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(TraceIDKey, "req-1")
		c.Next()
	})
	SetupGin(r, config.LogstashConfig{Token: "tok", Index: "ripple"})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	var line accessLine
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("access line is not json: %v (%s)", err, buf.String())
	}
	if line.TraceID != "req-1" || line.Status != http.StatusInternalServerError || line.Level != "ERROR" {
		t.Errorf("got %+v", line)
	}
	if line.TargetIndex != "ripple" || line.Path != "/boom" {
		t.Errorf("got %+v", line)
	}
}

func TestAccessLevel(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{503, "ERROR"},
	}
	for _, tt := range tests {
		if got := accessLevel(tt.status); got != tt.want {
			t.Errorf("accessLevel(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}
