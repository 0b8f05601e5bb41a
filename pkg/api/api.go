// Package api 定义HTTP服务的对外接口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/internal/router"
)

// RegisterGroup 将业务路由注册到 /api/v1 路由组.
// listCache 为可选的资产列表响应缓存中间件，传 nil 表示不启用.
func RegisterGroup(e *gin.Engine, listCache gin.HandlerFunc) *gin.Engine {
	router.Register(e.Group("/api/v1"), listCache)

	return e
}
