package types

import "time"

// CreateInvitationRequest 创建邀请请求.
type CreateInvitationRequest struct {
	Email string `json:"email" rule:"required,email"`
	Role  string `json:"role" rule:"required,oneof=viewer editor admin"`
	// ExpireDays 有效天数；缺省 7 天
	ExpireDays int `json:"expire_days" rule:"omitempty,min=1,max=90"`
}

// InvitationInfo 邀请的公开信息.
type InvitationInfo struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	InvitedBy  string     `json:"invited_by"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	Expired    bool       `json:"expired"`
}

// CreateInvitationResponse 创建邀请响应.
type CreateInvitationResponse struct {
	Invitation InvitationInfo `json:"invitation"`
}

// ListInvitationsResponse 邀请列表响应.
type ListInvitationsResponse struct {
	Invitations []InvitationInfo `json:"invitations"`
}

// ValidateInvitationResponse 邀请校验响应（注册页公开查询）.
type ValidateInvitationResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AgentInfo 采集/渲染代理的公开信息.
type AgentInfo struct {
	ID              string     `json:"id"`
	KeyID           string     `json:"key_id"`
	Label           string     `json:"label"`
	Type            string     `json:"type"`   // nas / render
	Status          string     `json:"status"` // online / offline / degraded
	LastHeartbeatAt *time.Time `json:"last_heartbeat_at,omitempty"`
	LastScanAt      *time.Time `json:"last_scan_at,omitempty"`
}

// ListAgentsResponse 代理列表响应.
type ListAgentsResponse struct {
	Agents []AgentInfo `json:"agents"`
}

// CreateAgentKeyRequest 签发代理密钥请求.
type CreateAgentKeyRequest struct {
	Label string `json:"label" rule:"required,max=255"`
}

// CreateAgentKeyResponse 签发代理密钥响应.
// Secret 仅在签发时返回一次，服务端只保存其哈希.
type CreateAgentKeyResponse struct {
	KeyID  string `json:"key_id"`
	Secret string `json:"secret"`
	Label  string `json:"label"`
}

// AgentKeyInfo 代理密钥的公开信息（不含明文或哈希）.
type AgentKeyInfo struct {
	KeyID      string     `json:"key_id"`
	Label      string     `json:"label"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// ListAgentKeysResponse 代理密钥列表响应.
type ListAgentKeysResponse struct {
	Keys []AgentKeyInfo `json:"keys"`
}
