package browse

// PageSize 列表页固定页大小.
const PageSize = 48

// BuildListParams 由过滤条件、页码与排序构造一次列表查询的参数.
// page 从 1 开始，小于 1 时按 1 处理；Offset = (page-1)*PageSize，不会为负.
// 未启用的过滤维度保持零值，不会以空字符串形式下发.
func BuildListParams(filter AssetFilter, page int, sort SortSpec) ListAssetsParams {
	if page < 1 {
		page = 1
	}

	return ListAssetsParams{
		Filter: filter,
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
		Sort:   normalizeSort(sort),
	}
}

// normalizeSort 填充缺省排序：created_at desc.
func normalizeSort(s SortSpec) SortSpec {
	switch s.By {
	case SortByCreatedAt, SortByUpdatedAt, SortByFileName, SortByFileSize:
	default:
		s.By = SortByCreatedAt
	}

	switch s.Dir {
	case SortAsc, SortDesc:
	default:
		s.Dir = SortDesc
	}

	return s
}

// TotalPages 由总数计算总页数（向上取整）；total<=0 时为 0.
func TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}

	return int((total + PageSize - 1) / PageSize)
}
