package router

import (
	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/internal/handle"
	"github.com/u2giants/popdam2/pkg/middleware"
)

// RegisterAdminRoutes 注册邀请与 agent 管理路由.
func RegisterAdminRoutes(g *gin.RouterGroup) {
	// 注册页公开校验；认证中间件按 /invitations/validate 前缀放行
	g.GET("/invitations/validate/:id", handle.ValidateInvitation)

	adminRoutes := g.Group("/admin", middleware.RequireMinRole(middleware.RoleAdmin))
	{
		adminRoutes.POST("/invitations", handle.CreateInvitation)
		adminRoutes.GET("/invitations", handle.ListInvitations)
		adminRoutes.DELETE("/invitations/:id", handle.DeleteInvitation)

		adminRoutes.GET("/agents", handle.ListAgents)

		// 运行时配置（AI 打标 / 缩略图存储），单行覆盖式更新
		adminRoutes.GET("/config", handle.GetAdminConfig)
		adminRoutes.PUT("/config/ai", handle.UpdateAIConfig)
		adminRoutes.PUT("/config/storage", handle.UpdateStorageConfig)

		// agent 接入密钥
		keyRoutes := adminRoutes.Group("/agents/keys")
		{
			keyRoutes.POST("", handle.CreateAgentKey)
			keyRoutes.GET("", handle.ListAgentKeys)
			keyRoutes.DELETE("/:id", handle.RevokeAgentKey)
		}
	}
}
