package browse

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gateway 是客户端核心对远端数据面的唯一依赖.
// 服务端 service 层在进程内实现它；远程前端可用 HTTP 客户端实现同一接口.
type Gateway interface {
	// ListAssets 返回一页规范化的资产行.
	ListAssets(ctx context.Context, params ListAssetsParams) ([]Asset, error)
	// CountAssets 返回同一过滤子集下的总行数.
	CountAssets(ctx context.Context, filter AssetFilter) (int64, error)
	// GetAsset 返回资产详情；不存在时返回（或包装）ErrNotFound.
	GetAsset(ctx context.Context, id string) (*AssetDetail, error)
	// ListProperties 返回全部作品，按名称升序.
	ListProperties(ctx context.Context) ([]Property, error)
	// ListCharacters 返回角色，propertyID 为空表示不限作品，按名称升序.
	ListCharacters(ctx context.Context, propertyID string) ([]Character, error)
}

// PageResult 一次取页的结果.
type PageResult struct {
	Assets []Asset
	Total  int64
	// CountDegraded 计数查询失败但行查询成功时为 true，此时 Total 为 0.
	CountDegraded bool
}

// FetchAssetPage 并发执行行查询与计数查询，两者共享 params.Filter.
// 行查询失败则整次取页失败；计数查询失败降级为 Total=0 并标记 CountDegraded，
// 行结果照常返回。两条查询不在同一事务中，总数与行在并发写入下可能短暂不一致.
func FetchAssetPage(ctx context.Context, g Gateway, params ListAssetsParams) (PageResult, error) {
	var (
		rows          []Asset
		total         int64
		countDegraded bool
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		r, err := g.ListAssets(egCtx, params)
		if err != nil {
			return err
		}

		rows = r

		return nil
	})

	eg.Go(func() error {
		t, err := g.CountAssets(egCtx, params.Filter)
		if err != nil {
			// 计数失败不致命：行结果照常呈现，总数清零
			countDegraded = true
			total = 0

			return nil
		}

		total = t

		return nil
	})

	if err := eg.Wait(); err != nil {
		return PageResult{}, err
	}

	if rows == nil {
		rows = []Asset{}
	}

	return PageResult{Assets: rows, Total: total, CountDegraded: countDegraded}, nil
}
