package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/internal/service"
	"github.com/u2giants/popdam2/pkg/internal/types"
	"github.com/u2giants/popdam2/pkg/log"
)

// GetAdminConfig 读取运行时配置（admin）；未初始化的段为 null.
func GetAdminConfig(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewConfigService(ctx)

	resp, err := svc.GetConfig(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Msg("get config failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateAIConfig 覆盖 AI 打标配置（admin）.
func UpdateAIConfig(c *gin.Context) {
	var req types.UpdateAIConfigRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewConfigService(ctx)

	row, err := svc.UpdateAIConfig(ctx, &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("update ai config failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"ai": row})
}

// UpdateStorageConfig 覆盖缩略图存储配置（admin）.
func UpdateStorageConfig(c *gin.Context) {
	var req types.UpdateStorageConfigRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewConfigService(ctx)

	row, err := svc.UpdateStorageConfig(ctx, &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("update storage config failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"storage": row})
}
