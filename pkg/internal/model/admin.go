package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentType agent 类型：NAS 扫描或缩略图渲染.
type AgentType string

const (
	AgentTypeNAS    AgentType = "nas"
	AgentTypeRender AgentType = "render"
)

// AgentStatus agent 运行状态，由心跳与定时清扫任务维护.
type AgentStatus string

const (
	AgentStatusOnline   AgentStatus = "online"
	AgentStatusOffline  AgentStatus = "offline"
	AgentStatusDegraded AgentStatus = "degraded"
)

// ScanJobStatus 扫描任务状态.
type ScanJobStatus string

const (
	ScanJobRunning   ScanJobStatus = "running"
	ScanJobCompleted ScanJobStatus = "completed"
	ScanJobFailed    ScanJobStatus = "failed"
)

// Invitation 注册邀请：管理员签发，受邀邮箱在有效期内凭 id 完成注册.
type Invitation struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Email      string     `gorm:"size:255;index"     json:"email"`
	Role       string     `gorm:"size:16"            json:"role"` // viewer / editor / admin
	InvitedBy  string     `gorm:"size:255"           json:"invited_by"`
	ExpiresAt  time.Time  `gorm:"index"              json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (i *Invitation) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}

	return nil
}

// Expired 是否已过期.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// AgentKey agent 接入凭证：key id 为 ULID，密钥只保存 sha256 摘要.
type AgentKey struct {
	KeyID      string     `gorm:"primaryKey;size:26" json:"key_id"`
	SecretHash string     `gorm:"size:64"            json:"-"`
	Label      string     `gorm:"size:255"           json:"label"`
	Active     bool       `gorm:"index"              json:"active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// Agent 扫描/渲染 agent 的注册信息与心跳.
type Agent struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	KeyID           string      `gorm:"size:26;index"      json:"key_id"`
	Label           string      `gorm:"size:255"           json:"label"`
	Type            AgentType   `gorm:"size:16;index"      json:"type"`
	Status          AgentStatus `gorm:"size:16;index"      json:"status"`
	LastHeartbeatAt *time.Time  `gorm:"index"              json:"last_heartbeat_at,omitempty"`
	LastScanAt      *time.Time  `json:"last_scan_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (a *Agent) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}

// ScanJob 一次目录扫描的簿记：由 pd.scan.* 事件驱动更新.
type ScanJob struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	AgentID       string        `gorm:"size:36;index"      json:"agent_id"`
	ShareID       string        `gorm:"size:64;index"      json:"share_id"`
	RootPath      string        `gorm:"size:1024"          json:"root_path"`
	Status        ScanJobStatus `gorm:"size:16;index"      json:"status"`
	FilesSeen     int64         `json:"files_seen"`
	FilesIngested int64         `json:"files_ingested"`
	FilesUpdated  int64         `json:"files_updated"`
	FilesRemoved  int64         `json:"files_removed"`
	Error         string        `gorm:"type:text" json:"error,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}
