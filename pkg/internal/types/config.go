package types

import "github.com/u2giants/popdam2/pkg/internal/model"

// UpdateAIConfigRequest AI 打标配置更新请求；整行覆盖.
type UpdateAIConfigRequest struct {
	Provider  string  `json:"provider" rule:"required,oneof=gemini openai anthropic"`
	ModelName string  `json:"model_name" rule:"required,max=128"`
	Enabled   bool    `json:"enabled"`
	TagPrompt *string `json:"tag_prompt" rule:"omitempty,max=4096"`
}

// UpdateStorageConfigRequest 存储/公网访问配置更新请求；整行覆盖.
type UpdateStorageConfigRequest struct {
	PublicBaseURL string `json:"public_base_url" rule:"required,url,max=512"`
	Endpoint      string `json:"endpoint" rule:"required,max=256"`
	Region        string `json:"region" rule:"required,max=64"`
	BucketName    string `json:"bucket_name" rule:"required,max=128"`
}

// GetConfigResponse 配置读取响应；未初始化的段为 null.
type GetConfigResponse struct {
	AI      *model.AIConfig      `json:"ai"`
	Storage *model.StorageConfig `json:"storage"`
}
