package middleware

import (
	"Ripple/internal/pkg/logger"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken == "good" {
		return &auth.Token{UID: "u-42"}, nil
	}
	return nil, errors.New("expired")
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer good", "u-42"},
		{"invalid token", "Bearer bad", ""},
		{"wrong scheme", "Basic good", ""},
		{"no header", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(FirebaseAuthMiddleware(stubVerifier{}))
			var got string
			r.GET("/", func(c *gin.Context) {
				got = c.GetString(CallerKey)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Fatalf("request must not be aborted, status = %d", w.Code)
			}
			if got != tt.want {
				t.Errorf("caller = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx = logger.TraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, "trace-abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if fromCtx != "trace-abc" || w.Header().Get(TraceHeader) != "trace-abc" {
		t.Errorf("propagated trace id = %q, header = %q", fromCtx, w.Header().Get(TraceHeader))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if fromCtx == "" || fromCtx == "trace-abc" {
		t.Errorf("expected generated trace id, got %q", fromCtx)
	}
}
