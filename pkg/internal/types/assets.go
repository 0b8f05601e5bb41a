package types

import "github.com/u2giants/popdam2/pkg/browse"

// ListAssetsRequest 资产列表查询参数.
// page 与 limit/offset 二选一：给了 page 则按固定页大小换算 offset.
type ListAssetsRequest struct {
	// Search 文件名/路径/标签的模糊匹配关键字
	Search string `form:"search" json:"search" rule:"omitempty,max=255"`
	// FileType 按文件类型过滤
	FileType string `form:"file_type" json:"file_type" rule:"omitempty,oneof=psd ai unknown"`
	// PropertyID / CharacterID 按关联过滤（等值）
	PropertyID  string `form:"property_id" json:"property_id" rule:"omitempty,max=64"`
	CharacterID string `form:"character_id" json:"character_id" rule:"omitempty,max=64"`
	// ThumbStatus 按缩略图状态过滤
	ThumbStatus string `form:"thumbnail_status" json:"thumbnail_status" rule:"omitempty,oneof=pending render_queued generating done error"`
	// NeedsReview 三态：不传则不过滤
	NeedsReview *bool `form:"needs_review" json:"needs_review"`

	Page   int `form:"page" json:"page" rule:"omitempty,min=1"`
	Limit  int `form:"limit" json:"limit" rule:"omitempty,min=1,max=48"`
	Offset int `form:"offset" json:"offset" rule:"omitempty,min=0"`

	SortBy  string `form:"sort_by" json:"sort_by" rule:"omitempty,oneof=created_at updated_at file_name file_size_bytes"`
	SortDir string `form:"sort_dir" json:"sort_dir" rule:"omitempty,oneof=asc desc"`
}

// Filter 转换为核心过滤条件.
func (r *ListAssetsRequest) Filter() browse.AssetFilter {
	return browse.AssetFilter{
		Search:      r.Search,
		FileType:    r.FileType,
		PropertyID:  r.PropertyID,
		CharacterID: r.CharacterID,
		ThumbStatus: r.ThumbStatus,
		NeedsReview: r.NeedsReview,
	}
}

// Params 转换为核心查询参数；page 优先于裸 offset.
func (r *ListAssetsRequest) Params() browse.ListAssetsParams {
	sort := browse.SortSpec{By: r.SortBy, Dir: r.SortDir}
	if r.Page > 0 {
		return browse.BuildListParams(r.Filter(), r.Page, sort)
	}

	params := browse.BuildListParams(r.Filter(), 1, sort)
	if r.Limit > 0 {
		params.Limit = r.Limit
	}

	if r.Offset > 0 {
		// 裸 offset 向下对齐到页边界，窗口始终与 total_pages 的换算一致
		params.Offset = r.Offset - r.Offset%params.Limit
	}

	return params
}

// ListAssetsResponse 资产列表响应.
type ListAssetsResponse struct {
	Assets []browse.Asset `json:"assets"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	// TotalPages 按固定页大小向上取整
	TotalPages int `json:"total_pages"`
	// CountDegraded 计数查询失败、total 以 0 兜底时为 true
	CountDegraded bool `json:"count_degraded,omitempty"`
}

// GetAssetResponse 资产详情响应.
type GetAssetResponse struct {
	Asset browse.AssetDetail `json:"asset"`
}

// UpdateAssetReviewRequest 复核标记更新请求.
type UpdateAssetReviewRequest struct {
	NeedsReview bool `json:"needs_review"`
}
