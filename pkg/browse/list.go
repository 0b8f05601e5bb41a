package browse

import (
	"context"
	"sync"
)

// ListState 列表状态机的状态.
type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListSuccess
	ListError
)

// String 返回状态的字符串表示.
func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListSuccess:
		return "success"
	case ListError:
		return "error"
	case ListIdle:
		fallthrough
	default:
		return "idle"
	}
}

// ListSnapshot 列表控制器某一时刻的稳定快照.
type ListSnapshot struct {
	State         ListState
	Assets        []Asset
	Total         int64
	TotalPages    int
	Page          int
	Filter        AssetFilter
	Sort          SortSpec
	Err           error
	CountDegraded bool
}

// ListController 驱动资产列表的取数周期：idle → loading → success/error.
// 并发安全；过期周期的结果（后发先至、Close 之后到达）会被丢弃，
// 即 last-request-wins。失败时保留上一次成功的行与总数.
type ListController struct {
	mu sync.Mutex
	gw Gateway

	filter AssetFilter
	sort   SortSpec
	page   int

	state         ListState
	assets        []Asset
	total         int64
	err           error
	countDegraded bool

	// cycle 单调递增的取数周期号；结果只在周期号仍为当前时生效
	cycle  uint64
	closed bool

	onChange func(ListSnapshot)
}

// ListOption 配置 ListController.
type ListOption func(*ListController)

// WithOnChange 注册状态变化回调；每次状态迁移后同步触发（持锁外）.
func WithOnChange(fn func(ListSnapshot)) ListOption {
	return func(c *ListController) { c.onChange = fn }
}

// NewListController 创建列表控制器，初始状态 idle，页码 1.
func NewListController(gw Gateway, opts ...ListOption) *ListController {
	c := &ListController{
		gw:     gw,
		page:   1,
		state:  ListIdle,
		assets: []Asset{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Load 以当前参数启动首次取数；对 idle 之外的状态等价于 Refetch.
func (c *ListController) Load(ctx context.Context) {
	c.mu.Lock()
	snap := c.dispatchLocked(ctx)
	c.mu.Unlock()
	c.notify(snap)
}

// SetFilter 更新过滤条件并将页码重置为 1.
// 过滤条件按值相等比较，未变化且非 idle 时不触发新周期.
func (c *ListController) SetFilter(ctx context.Context, filter AssetFilter) {
	c.mu.Lock()
	if c.state != ListIdle && c.filter.Equal(filter) {
		c.mu.Unlock()
		return
	}

	c.filter = filter
	c.page = 1
	snap := c.dispatchLocked(ctx)
	c.mu.Unlock()
	c.notify(snap)
}

// SetPage 切换页码，保留过滤与排序.
// 已知总数时夹取到 [1, totalPages]；页码未变化时不触发新周期.
func (c *ListController) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}

	if tp := TotalPages(c.total); c.state == ListSuccess && tp > 0 && page > tp {
		page = tp
	}

	if c.state != ListIdle && page == c.page {
		c.mu.Unlock()
		return
	}

	c.page = page
	snap := c.dispatchLocked(ctx)
	c.mu.Unlock()
	c.notify(snap)
}

// SetSort 更新排序，保留过滤与页码.
func (c *ListController) SetSort(ctx context.Context, sort SortSpec) {
	c.mu.Lock()
	sort = normalizeSort(sort)

	if c.state != ListIdle && c.sort == sort {
		c.mu.Unlock()
		return
	}

	c.sort = sort
	snap := c.dispatchLocked(ctx)
	c.mu.Unlock()
	c.notify(snap)
}

// Refetch 以当前参数重新取数.
func (c *ListController) Refetch(ctx context.Context) {
	c.Load(ctx)
}

// Snapshot 返回当前状态的稳定拷贝.
func (c *ListController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// Close 关闭控制器；此后到达的结果一律丢弃.
func (c *ListController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// dispatchLocked 开启一个新的取数周期，须持锁调用；返回 loading 快照.
func (c *ListController) dispatchLocked(ctx context.Context) ListSnapshot {
	if c.closed {
		return c.snapshotLocked()
	}

	c.cycle++
	id := c.cycle
	c.state = ListLoading
	params := BuildListParams(c.filter, c.page, c.sort)

	go func() {
		res, err := FetchAssetPage(ctx, c.gw, params)
		c.apply(id, res, err)
	}()

	return c.snapshotLocked()
}

// apply 应用取数结果；过期周期或已关闭时丢弃.
func (c *ListController) apply(id uint64, res PageResult, err error) {
	c.mu.Lock()
	if c.closed || id != c.cycle {
		c.mu.Unlock()
		return
	}

	if err != nil {
		// 失败保留上一次的行与总数，便于前端继续展示旧数据；
		// 降级标记只描述当前周期，失败周期不让它残留
		c.state = ListError
		c.err = err
		c.countDegraded = false
	} else {
		c.state = ListSuccess
		c.assets = res.Assets
		c.total = res.Total
		c.countDegraded = res.CountDegraded
		c.err = nil
	}

	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *ListController) snapshotLocked() ListSnapshot {
	assets := make([]Asset, len(c.assets))
	copy(assets, c.assets)

	return ListSnapshot{
		State:         c.state,
		Assets:        assets,
		Total:         c.total,
		TotalPages:    TotalPages(c.total),
		Page:          c.page,
		Filter:        c.filter,
		Sort:          c.sort,
		Err:           c.err,
		CountDegraded: c.countDegraded,
	}
}

func (c *ListController) notify(snap ListSnapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
