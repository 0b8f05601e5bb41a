package router

import (
	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/internal/handle"
	"github.com/u2giants/popdam2/pkg/middleware"
)

// RegisterTaxonomyRoutes 注册作品/角色引用数据路由.
func RegisterTaxonomyRoutes(g *gin.RouterGroup) {
	// 过滤器下拉用的只读引用数据
	g.GET("/properties", handle.ListProperties)
	g.GET("/characters", handle.ListCharacters)

	// 管理端维护，仅 admin
	adminRoutes := g.Group("/admin", middleware.RequireMinRole(middleware.RoleAdmin))
	{
		adminRoutes.POST("/properties", handle.CreateProperty)
		adminRoutes.PUT("/properties/:id", handle.UpdateProperty)
		adminRoutes.DELETE("/properties/:id", handle.DeleteProperty)

		adminRoutes.POST("/characters", handle.CreateCharacter)
		adminRoutes.PUT("/characters/:id", handle.UpdateCharacter)
		adminRoutes.DELETE("/characters/:id", handle.DeleteCharacter)
	}
}
