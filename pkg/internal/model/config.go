package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIConfig AI 自动打标配置；单行表，管理端维护.
type AIConfig struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Provider  string    `gorm:"size:32"            json:"provider"`
	ModelName string    `gorm:"size:128"           json:"model_name"`
	Enabled   bool      `json:"enabled"`
	TagPrompt *string   `gorm:"type:text" json:"tag_prompt,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *AIConfig) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}

// StorageConfig 缩略图存储与公网访问配置；单行表，管理端维护.
type StorageConfig struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	PublicBaseURL string    `gorm:"size:512"           json:"public_base_url"`
	Endpoint      string    `gorm:"size:256"           json:"endpoint"`
	Region        string    `gorm:"size:64"            json:"region"`
	BucketName    string    `gorm:"size:128"           json:"bucket_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *StorageConfig) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}
