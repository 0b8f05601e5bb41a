package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/u2giants/popdam2/pkg/browse"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage/db"
	"github.com/u2giants/popdam2/pkg/internal/storage/kv"
	"github.com/u2giants/popdam2/pkg/internal/types"
	nlog "github.com/u2giants/popdam2/pkg/log"
)

// 参考数据在 KV 里的缓存键前缀，与 browse.RefData 保持一致.
const (
	refDataPropsCacheKey = "refdata:properties"
	refDataCharsCachePfx = "refdata:characters:"
)

// ListProperties 返回全部作品，名称升序.
func (s *AssetService) ListProperties(ctx context.Context) ([]browse.Property, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var rows []model.Property
	if err := s.dbc.GetDB().WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	props := make([]browse.Property, 0, len(rows))
	for _, p := range rows {
		props = append(props, toBrowseProperty(&p))
	}

	return props, nil
}

// ListCharacters 返回角色，propertyID 为空表示不限作品，名称升序.
func (s *AssetService) ListCharacters(ctx context.Context, propertyID string) ([]browse.Character, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	q := s.dbc.GetDB().WithContext(ctx).Order("name ASC")
	if propertyID != "" {
		q = q.Where("property_id = ?", propertyID)
	}

	var rows []model.Character
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	characters := make([]browse.Character, 0, len(rows))
	for i := range rows {
		characters = append(characters, toBrowseCharacter(&rows[i]))
	}

	return characters, nil
}

func toBrowseProperty(p *model.Property) browse.Property {
	return browse.Property{ID: p.ID, Name: p.Name, Studio: p.Studio}
}

func toBrowseCharacter(c *model.Character) browse.Character {
	aliases, err := c.Aliases()
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("character_id", c.ID).Msg("bad aliases JSON, presenting empty")

		aliases = []string{}
	}

	out := browse.Character{ID: c.ID, Name: c.Name, Aliases: aliases}
	if c.PropertyID != nil {
		out.PropertyID = *c.PropertyID
	}

	return out
}

// TaxonomyService 作品/角色的管理端维护（仅 admin 角色路由可达）.
type TaxonomyService struct {
	dbc *db.Client
	kvc *kv.Client
}

// NewTaxonomyService 创建分类维护服务.
func NewTaxonomyService(c context.Context) *TaxonomyService {
	return &TaxonomyService{
		dbc: ctxPkg.GetDBClient(c),
		kvc: ctxPkg.GetKVClient(c),
	}
}

// CreateProperty 创建作品.
func (s *TaxonomyService) CreateProperty(ctx context.Context, req *types.CreatePropertyRequest) (*browse.Property, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	row := model.Property{Name: req.Name, Studio: req.Studio}
	if err := s.dbc.GetDB().WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.invalidateRefData(ctx)

	out := toBrowseProperty(&row)

	return &out, nil
}

// UpdateProperty 更新作品（全量替换名称与工作室）.
func (s *TaxonomyService) UpdateProperty(ctx context.Context, id string, req *types.UpdatePropertyRequest) (*browse.Property, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var row model.Property
	if err := s.dbc.GetDB().WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %s: %w", id, browse.ErrNotFound)
		}

		return nil, fmt.Errorf("get property: %w", err)
	}

	row.Name = req.Name
	row.Studio = req.Studio

	if err := s.dbc.GetDB().WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	s.invalidateRefData(ctx)

	out := toBrowseProperty(&row)

	return &out, nil
}

// DeleteProperty 删除作品；引用了它的角色退回"未归属".
func (s *TaxonomyService) DeleteProperty(ctx context.Context, id string) error {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return errors.New("db not initialized")
	}

	err := s.dbc.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Character{}).
			Where("property_id = ?", id).
			Update("property_id", nil).Error; err != nil {
			return fmt.Errorf("detach characters: %w", err)
		}

		res := tx.Delete(&model.Property{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete property: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("property %s: %w", id, browse.ErrNotFound)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateRefData(ctx)

	return nil
}

// CreateCharacter 创建角色.
func (s *TaxonomyService) CreateCharacter(ctx context.Context, req *types.CreateCharacterRequest) (*browse.Character, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	row := model.Character{Name: req.Name}
	if err := row.SetAliases(req.Aliases); err != nil {
		return nil, err
	}

	if req.PropertyID != "" {
		pid := req.PropertyID
		row.PropertyID = &pid
	}

	if err := s.dbc.GetDB().WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}

	s.invalidateRefData(ctx)

	out := toBrowseCharacter(&row)

	return &out, nil
}

// UpdateCharacter 更新角色（全量替换）.
func (s *TaxonomyService) UpdateCharacter(ctx context.Context, id string, req *types.UpdateCharacterRequest) (*browse.Character, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var row model.Character
	if err := s.dbc.GetDB().WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("character %s: %w", id, browse.ErrNotFound)
		}

		return nil, fmt.Errorf("get character: %w", err)
	}

	row.Name = req.Name
	if err := row.SetAliases(req.Aliases); err != nil {
		return nil, err
	}

	row.PropertyID = nil
	if req.PropertyID != "" {
		pid := req.PropertyID
		row.PropertyID = &pid
	}

	if err := s.dbc.GetDB().WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("update character: %w", err)
	}

	s.invalidateRefData(ctx)

	out := toBrowseCharacter(&row)

	return &out, nil
}

// DeleteCharacter 删除角色.
func (s *TaxonomyService) DeleteCharacter(ctx context.Context, id string) error {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return errors.New("db not initialized")
	}

	res := s.dbc.GetDB().WithContext(ctx).Delete(&model.Character{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete character: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("character %s: %w", id, browse.ErrNotFound)
	}

	s.invalidateRefData(ctx)

	return nil
}

// invalidateRefData 清掉参考数据的KV缓存；缓存不可用时静默跳过.
func (s *TaxonomyService) invalidateRefData(ctx context.Context) {
	if s.kvc == nil {
		return
	}

	_ = s.kvc.Delete(ctx, refDataPropsCacheKey)

	keys, err := s.kvc.Keys(ctx, refDataCharsCachePfx+"*")
	if err != nil {
		return
	}

	for _, key := range keys {
		_ = s.kvc.Delete(ctx, key)
	}
}
