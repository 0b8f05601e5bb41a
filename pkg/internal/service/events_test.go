package service

import (
	"context"
	"testing"

	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/queue"
)

func newTestConsumer(ctx context.Context) *EventConsumer {
	return &EventConsumer{
		dbc: ctxPkg.GetDBClient(ctx),
		kvc: ctxPkg.GetKVClient(ctx),
	}
}

func loadAsset(t *testing.T, ctx context.Context, id string) model.Asset {
	t.Helper()

	var row model.Asset
	if err := ctxPkg.GetDBClient(ctx).GetDB().First(&row, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	return row
}

func TestEventsAssetIngestedUpsert(t *testing.T) {
	ctx := newTestEnv(t)
	consumer := newTestConsumer(ctx)

	msg, err := queue.NewWatermillMessage(queue.TopicAssetIngested, queue.AssetIngestedPayload{
		Asset:         queue.AssetRef{AssetID: "a-1", ShareID: "nas1", RelativePath: "art/hero.psd", FileName: "hero.psd"},
		FileType:      "psd",
		FileSizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if err := consumer.handleAssetIngested(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	row := loadAsset(t, ctx, "a-1")
	if row.FileName != "hero.psd" || row.ThumbnailStatus != model.ThumbStatusPending {
		t.Fatalf("row = %+v", row)
	}

	// 同 share+path 重复入库按更新处理
	msg, err = queue.NewWatermillMessage(queue.TopicAssetIngested, queue.AssetIngestedPayload{
		Asset:         queue.AssetRef{AssetID: "a-1", ShareID: "nas1", RelativePath: "art/hero.psd", FileName: "hero_final.psd"},
		FileType:      "psd",
		FileSizeBytes: 2048,
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if err := consumer.handleAssetIngested(ctx, msg); err != nil {
		t.Fatalf("handle again: %v", err)
	}

	row = loadAsset(t, ctx, "a-1")
	if row.FileName != "hero_final.psd" {
		t.Fatalf("upsert did not update: %+v", row)
	}
}

func TestEventsThumbLifecycleInvariants(t *testing.T) {
	ctx := newTestEnv(t)
	consumer := newTestConsumer(ctx)

	asset := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/x.psd", FileName: "x.psd", FileType: model.FileTypePSD})

	step := func(run func() error) {
		t.Helper()

		if err := run(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	// queued → generating → done
	step(func() error {
		msg, err := queue.NewWatermillMessage(queue.TopicThumbQueued, queue.ThumbQueuedPayload{Asset: queue.AssetRef{AssetID: asset.ID}})
		if err != nil {
			return err
		}

		return consumer.handleThumbQueued(ctx, msg)
	})

	row := loadAsset(t, ctx, asset.ID)
	if row.ThumbnailStatus != model.ThumbStatusQueued || row.ThumbnailKey != nil || row.ThumbnailError != nil {
		t.Fatalf("after queued: %+v", row)
	}

	step(func() error {
		msg, err := queue.NewWatermillMessage(queue.TopicThumbGenerating, queue.ThumbGeneratingPayload{Asset: queue.AssetRef{AssetID: asset.ID}, AgentID: "render-1"})
		if err != nil {
			return err
		}

		return consumer.handleThumbGenerating(ctx, msg)
	})

	step(func() error {
		msg, err := queue.NewWatermillMessage(queue.TopicThumbDone, queue.ThumbDonePayload{Asset: queue.AssetRef{AssetID: asset.ID}, ObjectKey: "thumbs/a-1.webp"})
		if err != nil {
			return err
		}

		return consumer.handleThumbDone(ctx, msg)
	})

	row = loadAsset(t, ctx, asset.ID)
	if row.ThumbnailStatus != model.ThumbStatusDone {
		t.Fatalf("after done: status = %s", row.ThumbnailStatus)
	}

	// key 仅在 done 非空，error 必须为空
	if row.ThumbnailKey == nil || *row.ThumbnailKey != "thumbs/a-1.webp" || row.ThumbnailError != nil {
		t.Fatalf("after done: key = %v err = %v", row.ThumbnailKey, row.ThumbnailError)
	}

	// 失败迁移：error 非空、key 清空
	step(func() error {
		msg, err := queue.NewWatermillMessage(queue.TopicThumbFailed, queue.ThumbFailedPayload{Asset: queue.AssetRef{AssetID: asset.ID}, Error: "font missing"})
		if err != nil {
			return err
		}

		return consumer.handleThumbFailed(ctx, msg)
	})

	row = loadAsset(t, ctx, asset.ID)
	if row.ThumbnailStatus != model.ThumbStatusError || row.ThumbnailKey != nil {
		t.Fatalf("after failed: %+v", row)
	}

	if row.ThumbnailError == nil || *row.ThumbnailError != "font missing" {
		t.Fatalf("after failed: err = %v", row.ThumbnailError)
	}
}

func TestEventsThumbDoneRequiresObjectKey(t *testing.T) {
	ctx := newTestEnv(t)
	consumer := newTestConsumer(ctx)

	asset := seedAsset(t, ctx, model.Asset{ShareID: "nas1", RelativePath: "a/y.psd", FileName: "y.psd", FileType: model.FileTypePSD})

	msg, err := queue.NewWatermillMessage(queue.TopicThumbDone, queue.ThumbDonePayload{Asset: queue.AssetRef{AssetID: asset.ID}})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if err := consumer.handleThumbDone(ctx, msg); err == nil {
		t.Fatal("done without object_key must fail")
	}

	row := loadAsset(t, ctx, asset.ID)
	if row.ThumbnailStatus != model.ThumbStatusPending {
		t.Fatalf("row mutated: %+v", row)
	}
}

func TestEventsInvalidateListCache(t *testing.T) {
	ctx := newTestEnv(t)
	consumer := newTestConsumer(ctx)
	kvClient := ctxPkg.GetKVClient(ctx)

	if err := kvClient.Set(ctx, AssetListCachePrefix+"abc", []byte("{}"), 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	msg, err := queue.NewWatermillMessage(queue.TopicAssetDeleted, queue.AssetDeletedPayload{Asset: queue.AssetRef{AssetID: "gone"}})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if err := consumer.handleAssetDeleted(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	exists, err := kvClient.Exists(ctx, AssetListCachePrefix+"abc")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}

	if exists {
		t.Fatal("list cache entry survived asset event")
	}
}
