package router

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/u2giants/popdam2/pkg/cache"
	"github.com/u2giants/popdam2/pkg/internal/handle"
	"github.com/u2giants/popdam2/pkg/internal/service"
	"github.com/u2giants/popdam2/pkg/middleware"
)

// RegisterAssetRoutes 注册资产浏览相关路由.
// listCache 为可选的列表响应缓存中间件，传 nil 则列表请求直达处理器.
func RegisterAssetRoutes(g *gin.RouterGroup, listCache gin.HandlerFunc) {
	assetsRoutes := g.Group("/assets")
	{
		// 列表/搜索
		if listCache != nil {
			assetsRoutes.GET("", listCache, handle.ListAssets)
		} else {
			assetsRoutes.GET("", handle.ListAssets)
		}

		// 详情
		assetsRoutes.GET("/:id", handle.GetAsset)
		// 复核标记，editor 及以上
		assetsRoutes.PATCH("/:id/review", middleware.RequireMinRole(middleware.RoleEditor), handle.UpdateAssetReview)
	}
}

// AssetListCache 构造资产列表响应缓存中间件。
// 键统一带 service.AssetListCachePrefix 前缀，事件消费侧按该前缀批量失效.
func AssetListCache(c *appcache.Cache, ttl time.Duration) gin.HandlerFunc {
	cfg := middleware.DefaultCacheConfig(c)
	cfg.TTL = ttl
	cfg.Methods = []string{"GET"}
	cfg.KeyFunc = func(gc *gin.Context) string {
		return fmt.Sprintf("%s%x", service.AssetListCachePrefix, xxhash.Sum64String(canonicalQuery(gc)))
	}

	return middleware.CacheMiddleware(cfg)
}

// canonicalQuery 将 query 排序拼接，保证同一过滤条件生成同一缓存键.
func canonicalQuery(c *gin.Context) string {
	q := c.Request.URL.Query()
	if len(q) == 0 {
		return ""
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var b strings.Builder

	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(q[k], ","))
	}

	return b.String()
}
