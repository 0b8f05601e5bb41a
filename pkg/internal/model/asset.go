package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileType 资产文件类型.
type FileType string

const (
	FileTypePSD     FileType = "psd"
	FileTypeAI      FileType = "ai"
	FileTypeUnknown FileType = "unknown"
)

// ThumbStatus 缩略图生命周期状态，由渲染 agent 的事件驱动迁移：
// pending → render_queued → generating → done / error.
type ThumbStatus string

const (
	ThumbStatusPending    ThumbStatus = "pending"
	ThumbStatusQueued     ThumbStatus = "render_queued"
	ThumbStatusGenerating ThumbStatus = "generating"
	ThumbStatusDone       ThumbStatus = "done"
	ThumbStatusError      ThumbStatus = "error"
)

// RefSource 标签/关联的来源.
type RefSource string

const (
	RefSourceAI       RefSource = "ai"
	RefSourceManual   RefSource = "manual"
	RefSourceProposed RefSource = "proposed"
)

// Asset 资产模型：扫描 agent 在共享目录里发现的设计文件（PSD/AI）的元数据行.
// 不变式：ThumbnailKey 仅在状态为 done 时非空；ThumbnailError 仅在状态为 error 时非空.
type Asset struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// 共享目录标识与目录内相对路径，二者联合唯一
	ShareID       string   `gorm:"size:64;index:idx_share_path,unique;index" json:"share_id"`
	RelativePath  string   `gorm:"size:1024;index:idx_share_path,unique"     json:"relative_path"`
	FileName      string   `gorm:"size:512;index"                            json:"file_name"`
	FileType      FileType `gorm:"size:16;index"                             json:"file_type"`
	FileSizeBytes int64    `gorm:"index"                                     json:"file_size_bytes"`

	ThumbnailStatus ThumbStatus `gorm:"size:32;index;default:pending" json:"thumbnail_status"`
	// 缩略图桶中的对象键，状态 done 时写入
	ThumbnailKey   *string `gorm:"size:1024" json:"thumbnail_key,omitempty"`
	ThumbnailError *string `gorm:"type:text" json:"thumbnail_error,omitempty"`

	// 由入库路径维护：出现 proposed 标签或低置信度关联时置位
	NeedsReview bool `gorm:"index" json:"needs_review"`

	Tags          []AssetTag     `gorm:"foreignKey:AssetID" json:"tags"`
	CharacterRefs []CharacterRef `gorm:"foreignKey:AssetID" json:"character_refs"`
	PropertyRefs  []PropertyRef  `gorm:"foreignKey:AssetID" json:"property_refs"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate 缺省生成 uuid 主键；扫描 agent 也可自带 id.
func (a *Asset) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}

// AssetTag 资产自由标签，带来源与置信度.
type AssetTag struct {
	ID         uint      `gorm:"primaryKey"              json:"id"`
	AssetID    string    `gorm:"size:36;index"           json:"asset_id"`
	Value      string    `gorm:"size:255;index"          json:"value"`
	Source     RefSource `gorm:"size:16"                 json:"source"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CharacterRef 资产与角色的关联，来源/置信度独立于标签.
type CharacterRef struct {
	ID          uint      `gorm:"primaryKey"    json:"id"`
	AssetID     string    `gorm:"size:36;index" json:"asset_id"`
	CharacterID string    `gorm:"size:36;index" json:"character_id"`
	Source      RefSource `gorm:"size:16"       json:"source"`
	Confidence  *float64  `json:"confidence,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PropertyRef 资产与版权作品（property）的关联.
type PropertyRef struct {
	ID         uint      `gorm:"primaryKey"    json:"id"`
	AssetID    string    `gorm:"size:36;index" json:"asset_id"`
	PropertyID string    `gorm:"size:36;index" json:"property_id"`
	Source     RefSource `gorm:"size:16"       json:"source"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
