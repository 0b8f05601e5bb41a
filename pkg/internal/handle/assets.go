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

// ListAssets 资产列表：行查询与计数查询并发执行，共享同一过滤子集.
// 计数失败时行结果照常返回，total 以 0 兜底并带 count_degraded 标记.
func ListAssets(c *gin.Context) {
	l := log.Logger()

	var req types.ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewAssetService(ctx)
	params := req.Params()

	page, err := browse.FetchAssetPage(ctx, svc, params)
	if err != nil {
		l.Error().Err(err).Msg("list assets failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.ListAssetsResponse{
		Assets:        page.Assets,
		Total:         page.Total,
		Limit:         params.Limit,
		Offset:        params.Offset,
		TotalPages:    browse.TotalPages(page.Total),
		CountDegraded: page.CountDegraded,
	})
}

// GetAsset 资产详情；不存在返回 404，与服务错误区分.
func GetAsset(c *gin.Context) {
	l := log.Logger()
	id := c.Param("id")

	ctx := c.Request.Context()
	svc := service.NewAssetService(ctx)

	detail, err := svc.GetAsset(ctx, id)
	if err != nil {
		if errors.Is(err, browse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}

		l.Error().Err(err).Str("asset_id", id).Msg("get asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.GetAssetResponse{Asset: *detail})
}

// UpdateAssetReview 更新复核标记（editor 及以上）.
func UpdateAssetReview(c *gin.Context) {
	l := log.Logger()
	id := c.Param("id")

	var req types.UpdateAssetReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewAssetService(ctx)

	if err := svc.SetNeedsReview(ctx, id, req.NeedsReview); err != nil {
		if errors.Is(err, browse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}

		l.Error().Err(err).Str("asset_id", id).Msg("update review flag failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "needs_review": req.NeedsReview})
}
