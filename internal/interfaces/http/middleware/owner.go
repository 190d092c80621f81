package middleware

import (
	"ai-author-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// OwnerContext 将路径中的 owner ID 注入 gin 与日志 Context
func OwnerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.Param("oid")
		if ownerID != "" {
			c.Set("owner_id", ownerID)
			ctx := logger.WithContext(c.Request.Context(), logger.OwnerIDKey, ownerID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
