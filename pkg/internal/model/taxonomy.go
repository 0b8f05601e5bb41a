package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property 版权作品/IP（如某部动画、某个系列）.
type Property struct {
	ID        string    `gorm:"primaryKey;size:36"    json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex"  json:"name"`
	Studio    string    `gorm:"size:255"              json:"studio"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Property) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}

// Character 角色，隶属于某个 Property（可选）.
// Aliases 以 JSON 字符串形式存储，便于保持实现简单；未来可替换为 JSONB.
type Character struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;index"     json:"name"`
	AliasesJSON string    `gorm:"type:text"          json:"-"`
	PropertyID  *string   `gorm:"size:36;index"      json:"property_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Character) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}

// Aliases 反序列化别名列表，空串返回空切片.
func (c *Character) Aliases() ([]string, error) {
	if c.AliasesJSON == "" {
		return []string{}, nil
	}

	var aliases []string
	if err := json.Unmarshal([]byte(c.AliasesJSON), &aliases); err != nil {
		return nil, fmt.Errorf("unmarshal aliases: %w", err)
	}

	return aliases, nil
}

// SetAliases 序列化别名列表.
func (c *Character) SetAliases(aliases []string) error {
	if aliases == nil {
		aliases = []string{}
	}

	b, err := json.Marshal(aliases)
	if err != nil {
		return fmt.Errorf("marshal aliases: %w", err)
	}

	c.AliasesJSON = string(b)

	return nil
}
