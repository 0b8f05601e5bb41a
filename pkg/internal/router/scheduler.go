package router

import (
	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/internal/handle"
	"github.com/u2giants/popdam2/pkg/middleware"
)

// RegisterSchedulerRoutes 注册调度器相关路由；变更操作仅 admin.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/scheduler/jobs", handle.SchedulerJobs)
	g.GET("/scheduler/queue/waiting", handle.SchedulerQueueWaiting)

	g.POST("/scheduler/jobs/stop", middleware.RequireMinRole(middleware.RoleAdmin), handle.SchedulerStopJobs)
	g.DELETE("/scheduler/jobs/:id", middleware.RequireMinRole(middleware.RoleAdmin), handle.SchedulerRemoveJob)
}
