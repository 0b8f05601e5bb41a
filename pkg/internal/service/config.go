package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage/db"
	"github.com/u2giants/popdam2/pkg/internal/types"
)

// ConfigService 运行时配置维护：AI 打标与缩略图存储两张单行表.
// 与启动配置（viper）互不覆盖：这里存的是管理端可在线调整的部分.
type ConfigService struct {
	dbc *db.Client
}

// NewConfigService 创建配置服务.
func NewConfigService(c context.Context) *ConfigService {
	return &ConfigService{dbc: ctxPkg.GetDBClient(c)}
}

// GetConfig 返回两段配置；某段未初始化时为 null.
func (s *ConfigService) GetConfig(ctx context.Context) (*types.GetConfigResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	resp := &types.GetConfigResponse{}

	var ai model.AIConfig
	err := s.dbc.GetDB().WithContext(ctx).First(&ai).Error

	switch {
	case err == nil:
		resp.AI = &ai
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get ai config: %w", err)
	}

	var st model.StorageConfig
	err = s.dbc.GetDB().WithContext(ctx).First(&st).Error

	switch {
	case err == nil:
		resp.Storage = &st
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get storage config: %w", err)
	}

	return resp, nil
}

// UpdateAIConfig 整行覆盖 AI 打标配置；不存在则创建（保持单行）.
func (s *ConfigService) UpdateAIConfig(ctx context.Context, req *types.UpdateAIConfigRequest) (*model.AIConfig, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	gdb := s.dbc.GetDB().WithContext(ctx)

	var row model.AIConfig
	if err := gdb.First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load ai config: %w", err)
		}
	}

	row.Provider = req.Provider
	row.ModelName = req.ModelName
	row.Enabled = req.Enabled
	row.TagPrompt = req.TagPrompt

	if err := gdb.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save ai config: %w", err)
	}

	return &row, nil
}

// UpdateStorageConfig 整行覆盖存储配置；不存在则创建（保持单行）.
func (s *ConfigService) UpdateStorageConfig(ctx context.Context, req *types.UpdateStorageConfigRequest) (*model.StorageConfig, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	gdb := s.dbc.GetDB().WithContext(ctx)

	var row model.StorageConfig
	if err := gdb.First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load storage config: %w", err)
		}
	}

	row.PublicBaseURL = req.PublicBaseURL
	row.Endpoint = req.Endpoint
	row.Region = req.Region
	row.BucketName = req.BucketName

	if err := gdb.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save storage config: %w", err)
	}

	return &row, nil
}
