package service

import (
	"testing"

	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/types"
)

func TestConfigServiceGetReturnsNullSectionsWhenUninitialized(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewConfigService(ctx)

	resp, err := svc.GetConfig(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if resp.AI != nil || resp.Storage != nil {
		t.Fatalf("resp = %+v, want both sections null", resp)
	}
}

func TestConfigServiceUpdateAIConfigUpserts(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewConfigService(ctx)

	prompt := "列出画面中的角色与作品"
	first, err := svc.UpdateAIConfig(ctx, &types.UpdateAIConfigRequest{
		Provider:  "gemini",
		ModelName: "gemini-2.0-flash",
		Enabled:   true,
		TagPrompt: &prompt,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second, err := svc.UpdateAIConfig(ctx, &types.UpdateAIConfigRequest{
		Provider:  "openai",
		ModelName: "gpt-4o-mini",
		Enabled:   false,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// 单行表：再次更新覆盖同一行而不是新增
	if second.ID != first.ID {
		t.Fatalf("id changed %s -> %s, want same row", first.ID, second.ID)
	}

	var count int64
	if err := ctxPkg.GetDBClient(ctx).GetDB().Model(&model.AIConfig{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}

	resp, err := svc.GetConfig(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if resp.AI == nil || resp.AI.Provider != "openai" || resp.AI.Enabled || resp.AI.TagPrompt != nil {
		t.Fatalf("ai = %+v, want overwritten row", resp.AI)
	}
}

func TestConfigServiceUpdateStorageConfigUpserts(t *testing.T) {
	ctx := newTestEnv(t)
	svc := NewConfigService(ctx)

	first, err := svc.UpdateStorageConfig(ctx, &types.UpdateStorageConfigRequest{
		PublicBaseURL: "https://thumbs.example.com",
		Endpoint:      "nyc3.digitaloceanspaces.com",
		Region:        "nyc3",
		BucketName:    "popdam-thumbs",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second, err := svc.UpdateStorageConfig(ctx, &types.UpdateStorageConfigRequest{
		PublicBaseURL: "https://cdn.example.com",
		Endpoint:      "sfo3.digitaloceanspaces.com",
		Region:        "sfo3",
		BucketName:    "popdam-thumbs-v2",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("id changed %s -> %s, want same row", first.ID, second.ID)
	}

	resp, err := svc.GetConfig(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if resp.Storage == nil || resp.Storage.BucketName != "popdam-thumbs-v2" || resp.Storage.Region != "sfo3" {
		t.Fatalf("storage = %+v, want overwritten row", resp.Storage)
	}
}
