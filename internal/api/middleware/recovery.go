package middleware

import (
	"conduit/internal/api/response"
	"conduit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery 捕获 panic 并返回统一的 500 错误体，响应已写出时只记录日志
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("Panic recovered",
				zap.Any("panic", rec),
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"),
			)
			if !c.Writer.Written() {
				response.InternalError(c, "internal server error")
			}
			c.Abort()
		}()

		c.Next()
	}
}
