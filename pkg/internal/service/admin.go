package service

import (
	"context"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/u2giants/popdam2/pkg/browse"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage/db"
	"github.com/u2giants/popdam2/pkg/internal/storage/kv"
	"github.com/u2giants/popdam2/pkg/internal/types"
)

// 全局单例的 ULID 熵源，使用单调递增策略，确保同一毫秒内生成的 ULID 具有排序稳定性。
var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

const (
	inviteKeyPrefix = "invites:v1:"

	// DefaultInviteExpireDays 邀请缺省有效天数
	DefaultInviteExpireDays = 7

	agentSecretBytes = 32
)

// AdminService 管理端业务：邀请、agent 密钥与 agent 列表.
type AdminService struct {
	dbc *db.Client
	kvc *kv.Client
}

// NewAdminService 创建管理端服务.
func NewAdminService(c context.Context) *AdminService {
	return &AdminService{
		dbc: ctxPkg.GetDBClient(c),
		kvc: ctxPkg.GetKVClient(c),
	}
}

// CreateInvitation 签发注册邀请.
func (s *AdminService) CreateInvitation(ctx context.Context, invitedBy string, req *types.CreateInvitationRequest) (*types.InvitationInfo, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	days := req.ExpireDays
	if days <= 0 {
		days = DefaultInviteExpireDays
	}

	now := time.Now().UTC()
	row := model.Invitation{
		Email:     req.Email,
		Role:      req.Role,
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
	}

	if err := s.dbc.GetDB().WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	// 轻缓存：注册页校验走 KV，避免打穿 DB
	_ = s.cacheInvitation(ctx, &row)

	info := invitationInfo(&row, now)

	return &info, nil
}

// ListInvitations 返回全部邀请，新的在前.
func (s *AdminService) ListInvitations(ctx context.Context) ([]types.InvitationInfo, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var rows []model.Invitation
	if err := s.dbc.GetDB().WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	now := time.Now().UTC()

	out := make([]types.InvitationInfo, 0, len(rows))
	for i := range rows {
		out = append(out, invitationInfo(&rows[i], now))
	}

	return out, nil
}

// DeleteInvitation 撤销邀请.
func (s *AdminService) DeleteInvitation(ctx context.Context, id string) error {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return errors.New("db not initialized")
	}

	res := s.dbc.GetDB().WithContext(ctx).Delete(&model.Invitation{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete invitation: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("invitation %s: %w", id, browse.ErrNotFound)
	}

	if s.kvc != nil {
		_ = s.kvc.Delete(ctx, inviteKeyPrefix+id)
	}

	return nil
}

// ValidateInvitation 注册页公开校验：存在、未过期且未被使用.
func (s *AdminService) ValidateInvitation(ctx context.Context, id string) (*types.ValidateInvitationResponse, error) {
	if id == "" {
		return &types.ValidateInvitationResponse{Valid: false}, nil
	}

	row, err := s.getInvitationCached(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.ValidateInvitationResponse{Valid: false}, nil
		}

		return nil, err
	}

	if row.Expired(time.Now().UTC()) || row.AcceptedAt != nil {
		return &types.ValidateInvitationResponse{Valid: false}, nil
	}

	return &types.ValidateInvitationResponse{Valid: true, Email: row.Email, Role: row.Role}, nil
}

// PurgeExpiredInvitations 清理过期且未使用的邀请，返回删除行数；由定时任务调用.
func (s *AdminService) PurgeExpiredInvitations(ctx context.Context) (int64, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return 0, errors.New("db not initialized")
	}

	res := s.dbc.GetDB().WithContext(ctx).
		Where("expires_at < ? AND accepted_at IS NULL", time.Now().UTC()).
		Delete(&model.Invitation{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge invitations: %w", res.Error)
	}

	return res.RowsAffected, nil
}

// CreateAgentKey 签发 agent 接入密钥；明文只在响应里出现一次.
func (s *AdminService) CreateAgentKey(ctx context.Context, req *types.CreateAgentKeyRequest) (*types.CreateAgentKeyResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	secret := make([]byte, agentSecretBytes)
	if _, err := crand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := base64.RawURLEncoding.EncodeToString(secret)
	sum := sha256.Sum256([]byte(plaintext))

	row := model.AgentKey{
		KeyID:      ulid.MustNew(ulid.Now(), ulidEntropy).String(),
		SecretHash: hex.EncodeToString(sum[:]),
		Label:      req.Label,
		Active:     true,
	}

	if err := s.dbc.GetDB().WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create agent key: %w", err)
	}

	return &types.CreateAgentKeyResponse{KeyID: row.KeyID, Secret: plaintext, Label: row.Label}, nil
}

// RevokeAgentKey 吊销 agent 密钥；密钥行保留用于审计.
func (s *AdminService) RevokeAgentKey(ctx context.Context, keyID string) error {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return errors.New("db not initialized")
	}

	now := time.Now().UTC()

	res := s.dbc.GetDB().WithContext(ctx).
		Model(&model.AgentKey{}).
		Where("key_id = ? AND active = ?", keyID, true).
		Updates(map[string]any{"active": false, "revoked_at": now})
	if res.Error != nil {
		return fmt.Errorf("revoke agent key: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("agent key %s: %w", keyID, browse.ErrNotFound)
	}

	return nil
}

// ListAgentKeys 返回全部密钥（不含哈希），新的在前.
func (s *AdminService) ListAgentKeys(ctx context.Context) ([]types.AgentKeyInfo, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var rows []model.AgentKey
	if err := s.dbc.GetDB().WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list agent keys: %w", err)
	}

	out := make([]types.AgentKeyInfo, 0, len(rows))
	for _, k := range rows {
		out = append(out, types.AgentKeyInfo{
			KeyID:      k.KeyID,
			Label:      k.Label,
			Active:     k.Active,
			CreatedAt:  k.CreatedAt,
			LastUsedAt: k.LastUsedAt,
			RevokedAt:  k.RevokedAt,
		})
	}

	return out, nil
}

// ListAgents 返回注册过的扫描/渲染 agent.
func (s *AdminService) ListAgents(ctx context.Context) ([]types.AgentInfo, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var rows []model.Agent
	if err := s.dbc.GetDB().WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	out := make([]types.AgentInfo, 0, len(rows))
	for _, a := range rows {
		out = append(out, types.AgentInfo{
			ID:              a.ID,
			KeyID:           a.KeyID,
			Label:           a.Label,
			Type:            string(a.Type),
			Status:          string(a.Status),
			LastHeartbeatAt: a.LastHeartbeatAt,
			LastScanAt:      a.LastScanAt,
		})
	}

	return out, nil
}

// SweepOfflineAgents 把心跳超时的 agent 标记为 offline，返回更新行数；由定时任务调用.
func (s *AdminService) SweepOfflineAgents(ctx context.Context, offlineAfter time.Duration) (int64, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return 0, errors.New("db not initialized")
	}

	cutoff := time.Now().UTC().Add(-offlineAfter)

	res := s.dbc.GetDB().WithContext(ctx).
		Model(&model.Agent{}).
		Where("status <> ? AND (last_heartbeat_at IS NULL OR last_heartbeat_at < ?)", model.AgentStatusOffline, cutoff).
		Update("status", model.AgentStatusOffline)
	if res.Error != nil {
		return 0, fmt.Errorf("sweep offline agents: %w", res.Error)
	}

	return res.RowsAffected, nil
}

func invitationInfo(row *model.Invitation, now time.Time) types.InvitationInfo {
	return types.InvitationInfo{
		ID:         row.ID,
		Email:      row.Email,
		Role:       row.Role,
		InvitedBy:  row.InvitedBy,
		CreatedAt:  row.CreatedAt,
		ExpiresAt:  row.ExpiresAt,
		AcceptedAt: row.AcceptedAt,
		Expired:    row.Expired(now),
	}
}

// cacheInvitation 把邀请写入 KV，TTL 对齐其剩余有效期.
func (s *AdminService) cacheInvitation(ctx context.Context, row *model.Invitation) error {
	if s.kvc == nil {
		return nil
	}

	ttl := max(time.Until(row.ExpiresAt), 0)
	if ttl == 0 {
		return nil
	}

	b, err := json.Marshal(row)
	if err != nil {
		return err
	}

	return s.kvc.Set(ctx, inviteKeyPrefix+row.ID, b, ttl)
}

// getInvitationCached 优先 KV，其次回源 DB 并回填缓存.
func (s *AdminService) getInvitationCached(ctx context.Context, id string) (*model.Invitation, error) {
	if s.kvc != nil {
		if b, err := s.kvc.Get(ctx, inviteKeyPrefix+id); err == nil {
			var row model.Invitation
			if err := json.Unmarshal(b, &row); err == nil {
				return &row, nil
			}
		}
	}

	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var row model.Invitation
	if err := s.dbc.GetDB().WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}

	_ = s.cacheInvitation(ctx, &row)

	return &row, nil
}
