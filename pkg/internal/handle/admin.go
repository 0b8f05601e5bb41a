package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/browse"
	"github.com/u2giants/popdam2/pkg/internal/service"
	"github.com/u2giants/popdam2/pkg/internal/types"
	"github.com/u2giants/popdam2/pkg/log"
)

// CreateInvitation 签发注册邀请（admin）.
func CreateInvitation(c *gin.Context) {
	l := log.Logger()

	var req types.CreateInvitationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	invitedBy, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	info, err := svc.CreateInvitation(ctx, invitedBy, &req)
	if err != nil {
		l.Error().Err(err).Msg("create invitation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.CreateInvitationResponse{Invitation: *info})
}

// ListInvitations 邀请列表（admin）.
func ListInvitations(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	invitations, err := svc.ListInvitations(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list invitations failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.ListInvitationsResponse{Invitations: invitations})
}

// DeleteInvitation 撤销邀请（admin）.
func DeleteInvitation(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	if err := svc.DeleteInvitation(ctx, c.Param("id")); err != nil {
		if errors.Is(err, browse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
			return
		}

		log.Logger().Error().Err(err).Msg("delete invitation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ValidateInvitation 注册页公开校验邀请有效性；不暴露除邮箱/角色外的信息.
func ValidateInvitation(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	res, err := svc.ValidateInvitation(ctx, c.Param("id"))
	if err != nil {
		log.Logger().Error().Err(err).Msg("validate invitation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, res)
}

// ListAgents 扫描/渲染 agent 列表（admin）.
func ListAgents(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	agents, err := svc.ListAgents(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list agents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.ListAgentsResponse{Agents: agents})
}

// CreateAgentKey 签发 agent 接入密钥（admin）；明文只返回一次.
func CreateAgentKey(c *gin.Context) {
	var req types.CreateAgentKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	resp, err := svc.CreateAgentKey(ctx, &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("create agent key failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAgentKeys agent 密钥列表（admin），不含哈希.
func ListAgentKeys(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	keys, err := svc.ListAgentKeys(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list agent keys failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.ListAgentKeysResponse{Keys: keys})
}

// RevokeAgentKey 吊销 agent 密钥（admin）.
func RevokeAgentKey(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAdminService(ctx)

	if err := svc.RevokeAgentKey(ctx, c.Param("id")); err != nil {
		if errors.Is(err, browse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent key not found"})
			return
		}

		log.Logger().Error().Err(err).Msg("revoke agent key failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": c.Param("id")})
}
