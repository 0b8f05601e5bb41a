package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/browse"
	"github.com/u2giants/popdam2/pkg/internal/service"
	"github.com/u2giants/popdam2/pkg/internal/types"
	"github.com/u2giants/popdam2/pkg/log"
	"github.com/u2giants/popdam2/pkg/rule"
)

// ListProperties 作品列表，名称升序.
func ListProperties(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewAssetService(ctx)

	props, err := svc.ListProperties(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list properties failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.ListPropertiesResponse{Properties: props})
}

// ListCharacters 角色列表，可选按作品过滤，名称升序.
func ListCharacters(c *gin.Context) {
	var req types.ListCharactersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewAssetService(ctx)

	characters, err := svc.ListCharacters(ctx, req.PropertyID)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list characters failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.ListCharactersResponse{Characters: characters})
}

// CreateProperty 创建作品（admin）.
func CreateProperty(c *gin.Context) {
	var req types.CreatePropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewTaxonomyService(ctx)

	prop, err := svc.CreateProperty(ctx, &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("create property failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.PropertyResponse{Property: *prop})
}

// UpdateProperty 更新作品（admin）.
func UpdateProperty(c *gin.Context) {
	var req types.UpdatePropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewTaxonomyService(ctx)

	prop, err := svc.UpdateProperty(ctx, c.Param("id"), &req)
	if err != nil {
		respondTaxonomyError(c, err, "update property")
		return
	}

	c.JSON(http.StatusOK, types.PropertyResponse{Property: *prop})
}

// DeleteProperty 删除作品（admin）.
func DeleteProperty(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewTaxonomyService(ctx)

	if err := svc.DeleteProperty(ctx, c.Param("id")); err != nil {
		respondTaxonomyError(c, err, "delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// CreateCharacter 创建角色（admin）.
func CreateCharacter(c *gin.Context) {
	var req types.CreateCharacterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewTaxonomyService(ctx)

	char, err := svc.CreateCharacter(ctx, &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("create character failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.CharacterResponse{Character: *char})
}

// UpdateCharacter 更新角色（admin）.
func UpdateCharacter(c *gin.Context) {
	var req types.UpdateCharacterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewTaxonomyService(ctx)

	char, err := svc.UpdateCharacter(ctx, c.Param("id"), &req)
	if err != nil {
		respondTaxonomyError(c, err, "update character")
		return
	}

	c.JSON(http.StatusOK, types.CharacterResponse{Character: *char})
}

// DeleteCharacter 删除角色（admin）.
func DeleteCharacter(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewTaxonomyService(ctx)

	if err := svc.DeleteCharacter(ctx, c.Param("id")); err != nil {
		respondTaxonomyError(c, err, "delete character")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// bindAndValidate 绑定 JSON 请求体并按 rule 标签校验；失败时已写响应.
func bindAndValidate(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return err
	}

	if err := rule.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return err
	}

	return nil
}

func respondTaxonomyError(c *gin.Context, err error, action string) {
	if errors.Is(err, browse.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	log.Logger().Error().Err(err).Msg(action + " failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
