// Package browse 提供资产浏览的客户端核心：查询参数构造、列表状态机、
// 详情解析、参考数据缓存与缩略图呈现。任何前端（TUI、桌面壳、其他服务）
// 都可以基于 Gateway 接口嵌入使用；服务端的 service 层在进程内实现该接口。
package browse

import (
	"errors"
	"time"
)

// 资产文件类型.
const (
	FileTypePSD     = "psd"
	FileTypeAI      = "ai"
	FileTypeUnknown = "unknown"
)

// 缩略图生命周期状态（与数据库行的 thumbnail_status 一致）.
const (
	ThumbStatusPending    = "pending"
	ThumbStatusQueued     = "render_queued"
	ThumbStatusGenerating = "generating"
	ThumbStatusDone       = "done"
	ThumbStatusError      = "error"
)

// ErrNotFound 详情查询的"不存在"哨兵错误：与传输/服务错误严格区分.
// Gateway 实现需在资产不存在时返回（或包装）该错误.
var ErrNotFound = errors.New("asset not found")

// Tag 资产标签视图.
type Tag struct {
	Value      string   `json:"value"`
	Source     string   `json:"source"` // ai / manual / proposed
	Confidence *float64 `json:"confidence,omitempty"`
}

// Asset 列表行的规范化视图：关联为 nil 时一律呈现为空切片.
type Asset struct {
	ID              string    `json:"id"`
	ShareID         string    `json:"share_id"`
	RelativePath    string    `json:"relative_path"`
	FileName        string    `json:"file_name"`
	FileType        string    `json:"file_type"`
	FileSizeBytes   int64     `json:"file_size_bytes"`
	ThumbnailStatus string    `json:"thumbnail_status"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	ThumbnailError  string    `json:"thumbnail_error,omitempty"`
	NeedsReview     bool      `json:"needs_review"`
	Tags            []Tag     `json:"tags"`
	CharacterIDs    []string  `json:"character_ids"`
	PropertyIDs     []string  `json:"property_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NamedRef 详情页里解析出名称的关联.
type NamedRef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Source     string   `json:"source"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// AssetDetail 详情视图：列表行 + 解析出名称的角色/作品关联.
type AssetDetail struct {
	Asset

	Characters []NamedRef `json:"characters"`
	Properties []NamedRef `json:"properties"`
}

// Property 参考数据：版权作品.
type Property struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Studio string `json:"studio,omitempty"`
}

// Character 参考数据：角色.
type Character struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	PropertyID string   `json:"property_id,omitempty"`
}

// AssetFilter 列表过滤条件；零值字段表示未启用该维度.
type AssetFilter struct {
	// Search 文件名/路径/标签的模糊匹配关键字
	Search string `json:"search,omitempty"`
	// FileType psd / ai / unknown
	FileType string `json:"file_type,omitempty"`
	// PropertyID / CharacterID 关联过滤（等值）
	PropertyID  string `json:"property_id,omitempty"`
	CharacterID string `json:"character_id,omitempty"`
	// ThumbStatus 按缩略图状态过滤
	ThumbStatus string `json:"thumbnail_status,omitempty"`
	// NeedsReview 三态：nil 不过滤
	NeedsReview *bool `json:"needs_review,omitempty"`
}

// HasActive 任一维度启用即为 true；供"清除筛选"入口的显隐判断.
func (f AssetFilter) HasActive() bool {
	return f.Search != "" ||
		f.FileType != "" ||
		f.PropertyID != "" ||
		f.CharacterID != "" ||
		f.ThumbStatus != "" ||
		f.NeedsReview != nil
}

// WithProperty 切换作品过滤；作品变化时角色过滤随之清空，
// 避免跨作品残留一个不属于当前作品的角色条件.
func (f AssetFilter) WithProperty(propertyID string) AssetFilter {
	if f.PropertyID != propertyID {
		f.CharacterID = ""
	}

	f.PropertyID = propertyID

	return f
}

// Equal 值相等比较；NeedsReview 按指向的值比较.
func (f AssetFilter) Equal(o AssetFilter) bool {
	if f.Search != o.Search ||
		f.FileType != o.FileType ||
		f.PropertyID != o.PropertyID ||
		f.CharacterID != o.CharacterID ||
		f.ThumbStatus != o.ThumbStatus {
		return false
	}

	if (f.NeedsReview == nil) != (o.NeedsReview == nil) {
		return false
	}

	if f.NeedsReview != nil && *f.NeedsReview != *o.NeedsReview {
		return false
	}

	return true
}

// SortSpec 排序规格.
type SortSpec struct {
	By  string `json:"sort_by,omitempty"`  // created_at / updated_at / file_name / file_size_bytes
	Dir string `json:"sort_dir,omitempty"` // asc / desc
}

// 排序字段与方向的合法值.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByFileName  = "file_name"
	SortByFileSize  = "file_size_bytes"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListAssetsParams 一次列表查询的完整参数：过滤子集 + 分页窗口 + 排序.
// 行查询与计数查询共享同一个 Filter，保证谓词一致.
type ListAssetsParams struct {
	Filter AssetFilter `json:"filter"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Sort   SortSpec    `json:"sort"`
}

// Equal 值相等比较，用于判断参数是否真的变化.
func (p ListAssetsParams) Equal(o ListAssetsParams) bool {
	return p.Limit == o.Limit &&
		p.Offset == o.Offset &&
		p.Sort == o.Sort &&
		p.Filter.Equal(o.Filter)
}
