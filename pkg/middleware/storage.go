package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/storage"
)

func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithStorageManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
