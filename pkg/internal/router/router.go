// Package router 管理路由配置，用于设置HTTP服务的路由规则.
package router

import (
	"github.com/gin-gonic/gin"
)

// Register 将全部业务路由绑定到传入的 gin 路由组（通常为 /api/v1）。
// listCache 为可选的资产列表响应缓存中间件，传 nil 表示不启用缓存.
// router 包只负责将路径和处理器绑定到 gin 引擎，处理器的实现由 pkg/internal/handle 提供.
func Register(g *gin.RouterGroup, listCache gin.HandlerFunc) {
	RegisterAssetRoutes(g, listCache)
	RegisterTaxonomyRoutes(g)
	RegisterAdminRoutes(g)
	RegisterHealthCheckRoute(g)
	RegisterSchedulerRoutes(g)
}
