package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/u2giants/popdam2/pkg/browse"
	"github.com/u2giants/popdam2/pkg/configs"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage/db"
	"github.com/u2giants/popdam2/pkg/internal/storage/s3"
	nlog "github.com/u2giants/popdam2/pkg/log"
)

// AssetService 资产查询服务，实现 browse.Gateway，供 HTTP 层与进程内嵌入方共用.
type AssetService struct {
	dbc *db.Client
	s3c *s3.Client
}

// NewAssetService 创建资产查询服务.
func NewAssetService(c context.Context) *AssetService {
	svc := &AssetService{
		dbc: ctxPkg.GetDBClient(c),
		s3c: ctxPkg.GetS3Client(c),
	}

	if svc.s3c == nil {
		nlog.Logger().Warn().Msg("S3 client not initialized, thumbnail URLs will be empty")
	}

	return svc
}

// assetFilterScope 把过滤条件编译为 gorm scope.
// 行查询与计数查询必须经由同一个 scope，保证两者命中完全相同的子集.
func assetFilterScope(f browse.AssetFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Search != "" {
			pattern := "%" + f.Search + "%"
			q = q.Where(
				"(file_name LIKE ? OR relative_path LIKE ? OR EXISTS (SELECT 1 FROM asset_tags WHERE asset_tags.asset_id = assets.id AND asset_tags.value LIKE ?))",
				pattern, pattern, pattern,
			)
		}

		if f.FileType != "" {
			q = q.Where("file_type = ?", f.FileType)
		}

		if f.PropertyID != "" {
			q = q.Where(
				"EXISTS (SELECT 1 FROM property_refs WHERE property_refs.asset_id = assets.id AND property_refs.property_id = ?)",
				f.PropertyID,
			)
		}

		if f.CharacterID != "" {
			q = q.Where(
				"EXISTS (SELECT 1 FROM character_refs WHERE character_refs.asset_id = assets.id AND character_refs.character_id = ?)",
				f.CharacterID,
			)
		}

		if f.ThumbStatus != "" {
			q = q.Where("thumbnail_status = ?", f.ThumbStatus)
		}

		if f.NeedsReview != nil {
			q = q.Where("needs_review = ?", *f.NeedsReview)
		}

		return q
	}
}

// sortClause 把排序规格编译为 ORDER BY 子句；列名只能来自白名单.
func sortClause(s browse.SortSpec) string {
	col := "created_at"

	switch s.By {
	case browse.SortByUpdatedAt:
		col = "updated_at"
	case browse.SortByFileName:
		col = "file_name"
	case browse.SortByFileSize:
		col = "file_size_bytes"
	case browse.SortByCreatedAt:
	}

	dir := "DESC"
	if s.Dir == browse.SortAsc {
		dir = "ASC"
	}

	// id 兜底排序，保证翻页结果稳定
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

// ListAssets 返回一页规范化的资产行.
func (s *AssetService) ListAssets(ctx context.Context, params browse.ListAssetsParams) ([]browse.Asset, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var rows []model.Asset
	err := s.dbc.GetDB().WithContext(ctx).
		Model(&model.Asset{}).
		Scopes(assetFilterScope(params.Filter)).
		Preload("Tags").
		Preload("CharacterRefs").
		Preload("PropertyRefs").
		Order(sortClause(params.Sort)).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	assets := make([]browse.Asset, 0, len(rows))
	for i := range rows {
		assets = append(assets, s.toBrowseAsset(ctx, &rows[i]))
	}

	return assets, nil
}

// CountAssets 返回同一过滤子集下的总行数.
func (s *AssetService) CountAssets(ctx context.Context, filter browse.AssetFilter) (int64, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return 0, errors.New("db not initialized")
	}

	var total int64
	err := s.dbc.GetDB().WithContext(ctx).
		Model(&model.Asset{}).
		Scopes(assetFilterScope(filter)).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}

	return total, nil
}

// GetAsset 返回资产详情，角色/作品关联解析出名称.
// 行不存在时返回包装过的 browse.ErrNotFound.
func (s *AssetService) GetAsset(ctx context.Context, id string) (*browse.AssetDetail, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var row model.Asset
	err := s.dbc.GetDB().WithContext(ctx).
		Preload("Tags").
		Preload("CharacterRefs").
		Preload("PropertyRefs").
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get asset %s: %w", id, browse.ErrNotFound)
		}

		return nil, fmt.Errorf("get asset %s: %w", id, err)
	}

	detail := &browse.AssetDetail{Asset: s.toBrowseAsset(ctx, &row)}

	characters, err := s.resolveCharacterRefs(ctx, row.CharacterRefs)
	if err != nil {
		return nil, err
	}

	properties, err := s.resolvePropertyRefs(ctx, row.PropertyRefs)
	if err != nil {
		return nil, err
	}

	detail.Characters = characters
	detail.Properties = properties

	return detail, nil
}

// SetNeedsReview 更新复核标记（编辑及以上角色）.
func (s *AssetService) SetNeedsReview(ctx context.Context, id string, needsReview bool) error {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return errors.New("db not initialized")
	}

	res := s.dbc.GetDB().WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ?", id).
		Update("needs_review", needsReview)
	if res.Error != nil {
		return fmt.Errorf("set needs_review: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("set needs_review %s: %w", id, browse.ErrNotFound)
	}

	return nil
}

// toBrowseAsset 把 DB 行规范化为对外的资产视图：
// 关联为 nil 时一律输出空切片；done 状态解析预签名缩略图 URL.
func (s *AssetService) toBrowseAsset(ctx context.Context, m *model.Asset) browse.Asset {
	a := browse.Asset{
		ID:              m.ID,
		ShareID:         m.ShareID,
		RelativePath:    m.RelativePath,
		FileName:        m.FileName,
		FileType:        string(m.FileType),
		FileSizeBytes:   m.FileSizeBytes,
		ThumbnailStatus: string(m.ThumbnailStatus),
		NeedsReview:     m.NeedsReview,
		Tags:            make([]browse.Tag, 0, len(m.Tags)),
		CharacterIDs:    make([]string, 0, len(m.CharacterRefs)),
		PropertyIDs:     make([]string, 0, len(m.PropertyRefs)),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}

	if m.ThumbnailError != nil {
		a.ThumbnailError = *m.ThumbnailError
	}

	if m.ThumbnailStatus == model.ThumbStatusDone && m.ThumbnailKey != nil {
		a.ThumbnailURL = s.presignThumb(ctx, *m.ThumbnailKey)
	}

	for _, t := range m.Tags {
		a.Tags = append(a.Tags, browse.Tag{Value: t.Value, Source: string(t.Source), Confidence: t.Confidence})
	}

	for _, ref := range m.CharacterRefs {
		a.CharacterIDs = append(a.CharacterIDs, ref.CharacterID)
	}

	for _, ref := range m.PropertyRefs {
		a.PropertyIDs = append(a.PropertyIDs, ref.PropertyID)
	}

	return a
}

// presignThumb 解析缩略图对象键的预签名 GET URL；失败时留空，不阻塞列表.
func (s *AssetService) presignThumb(ctx context.Context, objectKey string) string {
	if s.s3c == nil || objectKey == "" {
		return ""
	}

	ttl := configs.GetConfig().Assets.GetThumbURLTTL()

	u, err := s.s3c.PresignThumbURL(ctx, objectKey, ttl)
	if err != nil {
		nlog.Logger().Debug().Err(err).Str("object_key", objectKey).Msg("presign thumbnail failed")
		return ""
	}

	return u
}

func (s *AssetService) resolveCharacterRefs(ctx context.Context, refs []model.CharacterRef) ([]browse.NamedRef, error) {
	out := make([]browse.NamedRef, 0, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.CharacterID)
	}

	var characters []model.Character
	if err := s.dbc.GetDB().WithContext(ctx).Where("id IN ?", ids).Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("resolve characters: %w", err)
	}

	names := make(map[string]string, len(characters))
	for _, c := range characters {
		names[c.ID] = c.Name
	}

	for _, r := range refs {
		out = append(out, browse.NamedRef{
			ID:         r.CharacterID,
			Name:       names[r.CharacterID],
			Source:     string(r.Source),
			Confidence: r.Confidence,
		})
	}

	return out, nil
}

func (s *AssetService) resolvePropertyRefs(ctx context.Context, refs []model.PropertyRef) ([]browse.NamedRef, error) {
	out := make([]browse.NamedRef, 0, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.PropertyID)
	}

	var properties []model.Property
	if err := s.dbc.GetDB().WithContext(ctx).Where("id IN ?", ids).Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("resolve properties: %w", err)
	}

	names := make(map[string]string, len(properties))
	for _, p := range properties {
		names[p.ID] = p.Name
	}

	for _, r := range refs {
		out = append(out, browse.NamedRef{
			ID:         r.PropertyID,
			Name:       names[r.PropertyID],
			Source:     string(r.Source),
			Confidence: r.Confidence,
		})
	}

	return out, nil
}
