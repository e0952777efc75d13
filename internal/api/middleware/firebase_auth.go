package middleware

import (
	"context"
	log "log/slog"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// CallerKey gin.Context 中调用方 uid 的 Key
const CallerKey = "caller_uid"

// TokenVerifier 由 *auth.Client 实现
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware 校验 Bearer ID Token 并注入 uid
// 缺失或无效的 token 不拦截，调用方按匿名处理，由业务层决定是否拒绝
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if verifier == nil || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		idToken := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			log.WarnContext(c.Request.Context(), "verify id token failed", "err", err)
			c.Next()
			return
		}

		c.Set(CallerKey, token.UID)
		c.Next()
	}
}
