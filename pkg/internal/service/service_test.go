package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/u2giants/popdam2/pkg/browse"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage"
	dbc "github.com/u2giants/popdam2/pkg/internal/storage/db"
	kvc "github.com/u2giants/popdam2/pkg/internal/storage/kv"
)

// newTestEnv 构造内存 sqlite + 内存 KV 的测试环境.
func newTestEnv(t *testing.T) context.Context {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = gdb.AutoMigrate(
		&model.Asset{}, &model.AssetTag{}, &model.CharacterRef{}, &model.PropertyRef{},
		&model.Property{}, &model.Character{},
		&model.Invitation{}, &model.AgentKey{}, &model.Agent{}, &model.ScanJob{},
		&model.AIConfig{}, &model.StorageConfig{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := kvc.NewKVStore(context.Background(), kvc.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	mgr := &storage.Manager{
		DB: &dbc.Client{DB: gdb},
		KV: &kvc.Client{KVStore: store},
	}

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

func seedAsset(t *testing.T, ctx context.Context, a model.Asset) model.Asset {
	t.Helper()

	gdb := ctxPkg.GetDBClient(ctx).GetDB()
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	return a
}

func TestAssetServiceListAndCountSameSubset(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)

	seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/hero.psd", FileName: "hero.psd", FileType: model.FileTypePSD})
	seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/logo.ai", FileName: "logo.ai", FileType: model.FileTypeAI})
	seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "b/cover.psd", FileName: "cover.psd", FileType: model.FileTypePSD})

	filter := browse.AssetFilter{FileType: browse.FileTypePSD}
	params := browse.ListAssetsParams{Filter: filter, Limit: 48, Sort: browse.SortSpec{By: browse.SortByFileName, Dir: browse.SortAsc}}

	rows, err := svc.ListAssets(ctx, params)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	total, err := svc.CountAssets(ctx, filter)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	if len(rows) != 2 || total != 2 {
		t.Fatalf("rows = %d total = %d, want 2/2", len(rows), total)
	}

	if rows[0].FileName != "cover.psd" || rows[1].FileName != "hero.psd" {
		t.Fatalf("sort order wrong: %s, %s", rows[0].FileName, rows[1].FileName)
	}
}

func TestAssetServiceSearchMatchesNamePathAndTags(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)

	byName := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "x/mermaid_v2.psd", FileName: "mermaid_v2.psd", FileType: model.FileTypePSD})
	byTag := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "y/char01.psd", FileName: "char01.psd", FileType: model.FileTypePSD})
	seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "z/other.psd", FileName: "other.psd", FileType: model.FileTypePSD})

	gdb := ctxPkg.GetDBClient(ctx).GetDB()
	if err := gdb.Create(&model.AssetTag{AssetID: byTag.ID, Value: "mermaid", Source: model.RefSourceAI}).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	filter := browse.AssetFilter{Search: "mermaid"}

	rows, err := svc.ListAssets(ctx, browse.ListAssetsParams{Filter: filter, Limit: 48})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	total, err := svc.CountAssets(ctx, filter)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	if len(rows) != 2 || total != 2 {
		t.Fatalf("rows = %d total = %d, want 2/2", len(rows), total)
	}

	found := map[string]bool{}
	for _, r := range rows {
		found[r.ID] = true
	}

	if !found[byName.ID] || !found[byTag.ID] {
		t.Fatalf("search missed expected assets: %v", found)
	}
}

func TestAssetServiceAssociationFilters(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)
	gdb := ctxPkg.GetDBClient(ctx).GetDB()

	tagged := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/one.psd", FileName: "one.psd", FileType: model.FileTypePSD})
	seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/two.psd", FileName: "two.psd", FileType: model.FileTypePSD})

	if err := gdb.Create(&model.PropertyRef{AssetID: tagged.ID, PropertyID: "prop-1", Source: model.RefSourceAI}).Error; err != nil {
		t.Fatalf("seed property ref: %v", err)
	}

	if err := gdb.Create(&model.CharacterRef{AssetID: tagged.ID, CharacterID: "char-1", Source: model.RefSourceManual}).Error; err != nil {
		t.Fatalf("seed character ref: %v", err)
	}

	for _, filter := range []browse.AssetFilter{
		{PropertyID: "prop-1"},
		{CharacterID: "char-1"},
	} {
		rows, err := svc.ListAssets(ctx, browse.ListAssetsParams{Filter: filter, Limit: 48})
		if err != nil {
			t.Fatalf("list %+v: %v", filter, err)
		}

		total, err := svc.CountAssets(ctx, filter)
		if err != nil {
			t.Fatalf("count %+v: %v", filter, err)
		}

		if len(rows) != 1 || total != 1 || rows[0].ID != tagged.ID {
			t.Fatalf("filter %+v: rows = %d total = %d", filter, len(rows), total)
		}
	}
}

func TestAssetServicePaginationWindows(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)

	for i := range 5 {
		seedAsset(t, ctx, model.Asset{
			ShareID:      "nas1",
			RelativePath: "p/" + string(rune('a'+i)) + ".psd",
			FileName:     string(rune('a'+i)) + ".psd",
			FileType:     model.FileTypePSD,
		})
	}

	sort := browse.SortSpec{By: browse.SortByFileName, Dir: browse.SortAsc}

	first, err := svc.ListAssets(ctx, browse.ListAssetsParams{Limit: 2, Offset: 0, Sort: sort})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}

	second, err := svc.ListAssets(ctx, browse.ListAssetsParams{Limit: 2, Offset: 2, Sort: sort})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("window sizes = %d/%d, want 2/2", len(first), len(second))
	}

	if first[0].FileName != "a.psd" || second[0].FileName != "c.psd" {
		t.Fatalf("windows overlap: %s / %s", first[0].FileName, second[0].FileName)
	}
}

func TestAssetServiceGetAssetNotFound(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)

	_, err := svc.GetAsset(ctx, "no-such-id")
	if !errors.Is(err, browse.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAssetServiceGetAssetResolvesNames(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)
	gdb := ctxPkg.GetDBClient(ctx).GetDB()

	prop := model.Property{Name: "Atlantis", Studio: "Studio A"}
	if err := gdb.Create(&prop).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}

	char := model.Character{Name: "Kida"}
	if err := gdb.Create(&char).Error; err != nil {
		t.Fatalf("seed character: %v", err)
	}

	asset := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/kida.psd", FileName: "kida.psd", FileType: model.FileTypePSD})

	conf := 0.92
	if err := gdb.Create(&model.CharacterRef{AssetID: asset.ID, CharacterID: char.ID, Source: model.RefSourceAI, Confidence: &conf}).Error; err != nil {
		t.Fatalf("seed character ref: %v", err)
	}

	if err := gdb.Create(&model.PropertyRef{AssetID: asset.ID, PropertyID: prop.ID, Source: model.RefSourceManual}).Error; err != nil {
		t.Fatalf("seed property ref: %v", err)
	}

	detail, err := svc.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(detail.Characters) != 1 || detail.Characters[0].Name != "Kida" {
		t.Fatalf("characters = %+v", detail.Characters)
	}

	if detail.Characters[0].Confidence == nil || *detail.Characters[0].Confidence != conf {
		t.Fatalf("confidence lost: %+v", detail.Characters[0])
	}

	if len(detail.Properties) != 1 || detail.Properties[0].Name != "Atlantis" {
		t.Fatalf("properties = %+v", detail.Properties)
	}

	// 无标签时输出空切片而非 nil
	if detail.Tags == nil {
		t.Fatal("tags must be an empty slice, not nil")
	}
}

func TestAssetServiceSetNeedsReview(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)

	asset := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/x.psd", FileName: "x.psd", FileType: model.FileTypePSD, NeedsReview: true})

	if err := svc.SetNeedsReview(ctx, asset.ID, false); err != nil {
		t.Fatalf("set: %v", err)
	}

	detail, err := svc.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if detail.NeedsReview {
		t.Fatal("needs_review not cleared")
	}

	if err := svc.SetNeedsReview(ctx, "missing", true); !errors.Is(err, browse.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAssetServiceThumbErrorSurfaced(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewAssetService(ctx)

	reason := "render crashed"
	asset := seedAsset(t, ctx, model.Asset{
		ShareID: "nas1", RelativePath: "a/bad.psd", FileName: "bad.psd", FileType: model.FileTypePSD,
		ThumbnailStatus: model.ThumbStatusError, ThumbnailError: &reason,
	})

	rows, err := svc.ListAssets(ctx, browse.ListAssetsParams{Limit: 48})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(rows) != 1 || rows[0].ID != asset.ID {
		t.Fatalf("rows = %+v", rows)
	}

	if rows[0].ThumbnailStatus != browse.ThumbStatusError || rows[0].ThumbnailError != reason {
		t.Fatalf("thumb fields = %q/%q", rows[0].ThumbnailStatus, rows[0].ThumbnailError)
	}

	// S3 未配置时 done 状态不炸，URL 留空
	if rows[0].ThumbnailURL != "" {
		t.Fatalf("url = %q, want empty", rows[0].ThumbnailURL)
	}
}

func TestSortClauseWhitelist(t *testing.T) {
	cases := []struct {
		spec browse.SortSpec
		want string
	}{
		{browse.SortSpec{}, "created_at DESC, id ASC"},
		{browse.SortSpec{By: browse.SortByCreatedAt, Dir: browse.SortAsc}, "created_at ASC, id ASC"},
		{browse.SortSpec{By: browse.SortByUpdatedAt, Dir: browse.SortDesc}, "updated_at DESC, id ASC"},
		{browse.SortSpec{By: browse.SortByFileName, Dir: browse.SortAsc}, "file_name ASC, id ASC"},
		{browse.SortSpec{By: browse.SortByFileSize, Dir: browse.SortDesc}, "file_size_bytes DESC, id ASC"},
		{browse.SortSpec{By: "drop table assets", Dir: "up"}, "created_at DESC, id ASC"},
	}

	for _, tc := range cases {
		if got := sortClause(tc.spec); got != tc.want {
			t.Errorf("sortClause(%+v) = %q, want %q", tc.spec, got, tc.want)
		}
	}
}
