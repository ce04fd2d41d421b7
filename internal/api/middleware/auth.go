package middleware

import (
	"strings"

	"conduit/internal/api/response"

	"github.com/gin-gonic/gin"
)

const ContextKeyUserID = "currentUserID"

// TokenVerifier 校验 token 并返回用户 ID
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			c.Abort()
			return
		}

		userID, err := verifier.VerifyToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// OptionalAuth 公开接口使用：有合法 Token 时识别用户，否则按匿名处理
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if userID, err := verifier.VerifyToken(token); err == nil {
				c.Set(ContextKeyUserID, userID)
			}
		}
		c.Next()
	}
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

// ViewerID 当前访问者 ID，匿名为 0
func ViewerID(c *gin.Context) int64 {
	id, _ := GetCurrentUserID(c)
	return id
}

// extractToken 从 Authorization 头中提取 Token，支持 Bearer 与 Token 两种前缀
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "bearer") && !strings.EqualFold(parts[0], "token") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
