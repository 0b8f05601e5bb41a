package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/u2giants/popdam2/pkg/browse"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/types"
)

func TestAdminInvitationLifecycle(t *testing.T) {
	ctx := newTestEnv(t)
	adm := NewAdminService(ctx)

	info, err := adm.CreateInvitation(ctx, "admin@example.com", &types.CreateInvitationRequest{
		Email: "artist@example.com",
		Role:  "editor",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if info.Expired || info.Role != "editor" {
		t.Fatalf("info = %+v", info)
	}

	res, err := adm.ValidateInvitation(ctx, info.ID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if !res.Valid || res.Email != "artist@example.com" || res.Role != "editor" {
		t.Fatalf("validate = %+v", res)
	}

	// 不存在的邀请只报无效，不报错
	res, err = adm.ValidateInvitation(ctx, "no-such-id")
	if err != nil || res.Valid {
		t.Fatalf("missing invitation: res = %+v err = %v", res, err)
	}

	list, err := adm.ListInvitations(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %d err = %v", len(list), err)
	}

	if err := adm.DeleteInvitation(ctx, info.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := adm.DeleteInvitation(ctx, info.ID); !errors.Is(err, browse.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestAdminExpiredInvitationInvalidAndPurged(t *testing.T) {
	ctx := newTestEnv(t)
	adm := NewAdminService(ctx)
	gdb := ctxPkg.GetDBClient(ctx).GetDB()

	expired := model.Invitation{
		Email:     "late@example.com",
		Role:      "viewer",
		InvitedBy: "admin@example.com",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	if err := gdb.Create(&expired).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := adm.ValidateInvitation(ctx, expired.ID)
	if err != nil || res.Valid {
		t.Fatalf("expired invitation validated: %+v err = %v", res, err)
	}

	purged, err := adm.PurgeExpiredInvitations(ctx)
	if err != nil || purged != 1 {
		t.Fatalf("purged = %d err = %v", purged, err)
	}
}

func TestAdminAgentKeyIssueAndRevoke(t *testing.T) {
	ctx := newTestEnv(t)
	adm := NewAdminService(ctx)

	resp, err := adm.CreateAgentKey(ctx, &types.CreateAgentKeyRequest{Label: "nas scanner"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if resp.KeyID == "" || resp.Secret == "" {
		t.Fatalf("resp = %+v", resp)
	}

	// 库里只有哈希，且与明文对得上
	var row model.AgentKey
	if err := ctxPkg.GetDBClient(ctx).GetDB().First(&row, "key_id = ?", resp.KeyID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	sum := sha256.Sum256([]byte(resp.Secret))
	if row.SecretHash != hex.EncodeToString(sum[:]) {
		t.Fatal("secret hash mismatch")
	}

	if !row.Active {
		t.Fatal("new key not active")
	}

	if err := adm.RevokeAgentKey(ctx, resp.KeyID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	keys, err := adm.ListAgentKeys(ctx)
	if err != nil || len(keys) != 1 {
		t.Fatalf("keys = %d err = %v", len(keys), err)
	}

	if keys[0].Active || keys[0].RevokedAt == nil {
		t.Fatalf("key not revoked: %+v", keys[0])
	}

	// 已吊销的密钥再次吊销视为不存在
	if err := adm.RevokeAgentKey(ctx, resp.KeyID); !errors.Is(err, browse.ErrNotFound) {
		t.Fatalf("second revoke err = %v", err)
	}
}

func TestAdminSweepOfflineAgents(t *testing.T) {
	ctx := newTestEnv(t)
	adm := NewAdminService(ctx)
	gdb := ctxPkg.GetDBClient(ctx).GetDB()

	stale := time.Now().UTC().Add(-10 * time.Minute)
	fresh := time.Now().UTC()

	agents := []model.Agent{
		{KeyID: "k1", Label: "old nas", Type: model.AgentTypeNAS, Status: model.AgentStatusOnline, LastHeartbeatAt: &stale},
		{KeyID: "k2", Label: "fresh render", Type: model.AgentTypeRender, Status: model.AgentStatusOnline, LastHeartbeatAt: &fresh},
		{KeyID: "k3", Label: "never seen", Type: model.AgentTypeNAS, Status: model.AgentStatusDegraded},
	}
	for i := range agents {
		if err := gdb.Create(&agents[i]).Error; err != nil {
			t.Fatalf("seed agent: %v", err)
		}
	}

	swept, err := adm.SweepOfflineAgents(ctx, 3*time.Minute)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if swept != 2 {
		t.Fatalf("swept = %d, want 2", swept)
	}

	listed, err := adm.ListAgents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	statuses := map[string]string{}
	for _, a := range listed {
		statuses[a.Label] = a.Status
	}

	if statuses["old nas"] != "offline" || statuses["never seen"] != "offline" || statuses["fresh render"] != "online" {
		t.Fatalf("statuses = %+v", statuses)
	}
}
