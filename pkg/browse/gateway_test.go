package browse_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/u2giants/popdam2/pkg/browse"
)

// fakeGateway 行为可按测试注入的 Gateway 假实现.
type fakeGateway struct {
	mu sync.Mutex

	listFn  func(ctx context.Context, params browse.ListAssetsParams) ([]browse.Asset, error)
	countFn func(ctx context.Context, filter browse.AssetFilter) (int64, error)
	getFn   func(ctx context.Context, id string) (*browse.AssetDetail, error)
	propsFn func(ctx context.Context) ([]browse.Property, error)
	charsFn func(ctx context.Context, propertyID string) ([]browse.Character, error)

	listCalls  []browse.ListAssetsParams
	countCalls []browse.AssetFilter
	propsCalls int
	charsCalls []string
}

func (g *fakeGateway) ListAssets(ctx context.Context, params browse.ListAssetsParams) ([]browse.Asset, error) {
	g.mu.Lock()
	g.listCalls = append(g.listCalls, params)
	fn := g.listFn
	g.mu.Unlock()

	if fn == nil {
		return []browse.Asset{}, nil
	}

	return fn(ctx, params)
}

func (g *fakeGateway) CountAssets(ctx context.Context, filter browse.AssetFilter) (int64, error) {
	g.mu.Lock()
	g.countCalls = append(g.countCalls, filter)
	fn := g.countFn
	g.mu.Unlock()

	if fn == nil {
		return 0, nil
	}

	return fn(ctx, filter)
}

func (g *fakeGateway) GetAsset(ctx context.Context, id string) (*browse.AssetDetail, error) {
	g.mu.Lock()
	fn := g.getFn
	g.mu.Unlock()

	if fn == nil {
		return nil, browse.ErrNotFound
	}

	return fn(ctx, id)
}

func (g *fakeGateway) ListProperties(ctx context.Context) ([]browse.Property, error) {
	g.mu.Lock()
	g.propsCalls++
	fn := g.propsFn
	g.mu.Unlock()

	if fn == nil {
		return []browse.Property{}, nil
	}

	return fn(ctx)
}

func (g *fakeGateway) ListCharacters(ctx context.Context, propertyID string) ([]browse.Character, error) {
	g.mu.Lock()
	g.charsCalls = append(g.charsCalls, propertyID)
	fn := g.charsFn
	g.mu.Unlock()

	if fn == nil {
		return []browse.Character{}, nil
	}

	return fn(ctx, propertyID)
}

func (g *fakeGateway) recordedCalls() ([]browse.ListAssetsParams, []browse.AssetFilter) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]browse.ListAssetsParams(nil), g.listCalls...),
		append([]browse.AssetFilter(nil), g.countCalls...)
}

func TestFetchAssetPageSharedFilter(t *testing.T) {
	gw := &fakeGateway{}
	needsReview := true
	filter := browse.AssetFilter{Search: "hero", FileType: browse.FileTypePSD, NeedsReview: &needsReview}
	params := browse.BuildListParams(filter, 2, browse.SortSpec{})

	if _, err := browse.FetchAssetPage(context.Background(), gw, params); err != nil {
		t.Fatalf("fetch page: %v", err)
	}

	listCalls, countCalls := gw.recordedCalls()
	if len(listCalls) != 1 || len(countCalls) != 1 {
		t.Fatalf("calls = %d list / %d count, want 1/1", len(listCalls), len(countCalls))
	}

	// 行查询与计数查询必须收到同一份过滤条件
	if !listCalls[0].Filter.Equal(countCalls[0]) {
		t.Fatalf("list filter %+v != count filter %+v", listCalls[0].Filter, countCalls[0])
	}

	if !countCalls[0].Equal(filter) {
		t.Fatalf("count filter %+v, want %+v", countCalls[0], filter)
	}
}

func TestFetchAssetPageRowFailureFatal(t *testing.T) {
	wantErr := errors.New("db down")
	gw := &fakeGateway{
		listFn: func(context.Context, browse.ListAssetsParams) ([]browse.Asset, error) {
			return nil, wantErr
		},
		countFn: func(context.Context, browse.AssetFilter) (int64, error) {
			return 1000, nil
		},
	}

	res, err := browse.FetchAssetPage(context.Background(), gw, browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{}))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	if len(res.Assets) != 0 || res.Total != 0 {
		t.Fatalf("failed fetch leaked data: %+v", res)
	}
}

func TestFetchAssetPageCountFailureDegrades(t *testing.T) {
	rows := []browse.Asset{{ID: "a1"}, {ID: "a2"}}
	gw := &fakeGateway{
		listFn: func(context.Context, browse.ListAssetsParams) ([]browse.Asset, error) {
			return rows, nil
		},
		countFn: func(context.Context, browse.AssetFilter) (int64, error) {
			return 0, errors.New("count timeout")
		},
	}

	res, err := browse.FetchAssetPage(context.Background(), gw, browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{}))
	if err != nil {
		t.Fatalf("count failure must not fail the page: %v", err)
	}

	if len(res.Assets) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Assets))
	}

	if res.Total != 0 || !res.CountDegraded {
		t.Fatalf("total = %d degraded = %v, want 0/true", res.Total, res.CountDegraded)
	}
}

func TestFetchAssetPageNilRowsNormalized(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(context.Context, browse.ListAssetsParams) ([]browse.Asset, error) {
			return nil, nil
		},
	}

	res, err := browse.FetchAssetPage(context.Background(), gw, browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{}))
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}

	if res.Assets == nil {
		t.Fatal("rows must be an empty slice, not nil")
	}
}
