package browse_test

import (
	"testing"

	"github.com/u2giants/popdam2/pkg/browse"
)

func TestBuildListParamsOffset(t *testing.T) {
	cases := []struct {
		page   int
		offset int
	}{
		{1, 0},
		{2, 48},
		{5, 192},
		{10, 432},
	}

	for _, tc := range cases {
		p := browse.BuildListParams(browse.AssetFilter{}, tc.page, browse.SortSpec{})
		if p.Offset != tc.offset {
			t.Errorf("page %d: offset = %d, want %d", tc.page, p.Offset, tc.offset)
		}

		if p.Limit != browse.PageSize {
			t.Errorf("page %d: limit = %d, want %d", tc.page, p.Limit, browse.PageSize)
		}
	}
}

func TestBuildListParamsClampsPage(t *testing.T) {
	for _, page := range []int{0, -1, -48} {
		p := browse.BuildListParams(browse.AssetFilter{}, page, browse.SortSpec{})
		if p.Offset != 0 {
			t.Errorf("page %d: offset = %d, want 0", page, p.Offset)
		}
	}
}

func TestBuildListParamsDefaultSort(t *testing.T) {
	p := browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{})
	if p.Sort.By != browse.SortByCreatedAt || p.Sort.Dir != browse.SortDesc {
		t.Fatalf("default sort = %+v, want created_at desc", p.Sort)
	}

	p = browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{By: "bogus", Dir: "sideways"})
	if p.Sort.By != browse.SortByCreatedAt || p.Sort.Dir != browse.SortDesc {
		t.Fatalf("invalid sort normalized to %+v, want created_at desc", p.Sort)
	}

	p = browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{By: browse.SortByFileName, Dir: browse.SortAsc})
	if p.Sort.By != browse.SortByFileName || p.Sort.Dir != browse.SortAsc {
		t.Fatalf("valid sort rewritten to %+v", p.Sort)
	}
}

func TestBuildListParamsKeepsEverySortField(t *testing.T) {
	for _, by := range []string{
		browse.SortByCreatedAt,
		browse.SortByUpdatedAt,
		browse.SortByFileName,
		browse.SortByFileSize,
	} {
		p := browse.BuildListParams(browse.AssetFilter{}, 1, browse.SortSpec{By: by, Dir: browse.SortAsc})
		if p.Sort.By != by {
			t.Errorf("sort_by %q coerced to %q", by, p.Sort.By)
		}
	}
}

func TestBuildListParamsCarriesFilter(t *testing.T) {
	needsReview := true
	filter := browse.AssetFilter{
		Search:      "mermaid",
		FileType:    browse.FileTypePSD,
		PropertyID:  "prop-1",
		NeedsReview: &needsReview,
	}

	p := browse.BuildListParams(filter, 3, browse.SortSpec{})
	if !p.Filter.Equal(filter) {
		t.Fatalf("filter = %+v, want %+v", p.Filter, filter)
	}

	// 相同输入必须产出相同参数
	q := browse.BuildListParams(filter, 3, browse.SortSpec{})
	if !p.Equal(q) {
		t.Fatalf("same inputs produced different params: %+v vs %+v", p, q)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		pages int
	}{
		{-5, 0},
		{0, 0},
		{1, 1},
		{47, 1},
		{48, 1},
		{49, 2},
		{96, 2},
		{97, 3},
	}

	for _, tc := range cases {
		if got := browse.TotalPages(tc.total); got != tc.pages {
			t.Errorf("TotalPages(%d) = %d, want %d", tc.total, got, tc.pages)
		}
	}
}

func TestAssetFilterWithPropertyClearsCharacter(t *testing.T) {
	f := browse.AssetFilter{}.WithProperty("P1")
	f.CharacterID = "C1"

	// 同一作品内重复设置不影响角色过滤
	f = f.WithProperty("P1")
	if f.CharacterID != "C1" {
		t.Fatalf("character cleared on same property: %+v", f)
	}

	// 切换作品时角色过滤随之清空
	f = f.WithProperty("P2")
	if f.PropertyID != "P2" || f.CharacterID != "" {
		t.Fatalf("filter after property switch = %+v, want P2 with empty character", f)
	}

	// 取消作品过滤同样清空角色
	f.CharacterID = "C2"
	f = f.WithProperty("")
	if f.PropertyID != "" || f.CharacterID != "" {
		t.Fatalf("filter after clearing property = %+v, want both empty", f)
	}
}

func TestAssetFilterHasActive(t *testing.T) {
	if (browse.AssetFilter{}).HasActive() {
		t.Fatal("zero filter reported active")
	}

	needsReview := false
	active := []browse.AssetFilter{
		{Search: "x"},
		{FileType: browse.FileTypeAI},
		{PropertyID: "p"},
		{CharacterID: "c"},
		{ThumbStatus: browse.ThumbStatusError},
		{NeedsReview: &needsReview},
	}

	for i, f := range active {
		if !f.HasActive() {
			t.Errorf("filter %d reported inactive: %+v", i, f)
		}
	}
}
