package browse

import (
	"context"
	"errors"
	"sync"
)

// DetailState 详情解析器的状态.
type DetailState int

const (
	DetailIdle DetailState = iota
	DetailLoading
	DetailSuccess
	DetailNotFound
	DetailError
)

// String 返回状态的字符串表示.
func (s DetailState) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailSuccess:
		return "success"
	case DetailNotFound:
		return "not_found"
	case DetailError:
		return "error"
	case DetailIdle:
		fallthrough
	default:
		return "idle"
	}
}

// DetailSnapshot 详情解析器某一时刻的稳定快照.
type DetailSnapshot struct {
	State  DetailState
	ID     string
	Detail *AssetDetail
	Err    error
}

// DetailResolver 解析单个资产详情；响应只在其请求的 id 仍为当前 id
// 且解析器未关闭时生效（过期响应丢弃）。"不存在"是独立的终态，
// 与传输/服务错误区分.
type DetailResolver struct {
	mu sync.Mutex
	gw Gateway

	id     string
	state  DetailState
	detail *AssetDetail
	err    error

	gen      uint64
	closed   bool
	onChange func(DetailSnapshot)
}

// NewDetailResolver 创建详情解析器.
func NewDetailResolver(gw Gateway, onChange func(DetailSnapshot)) *DetailResolver {
	return &DetailResolver{gw: gw, onChange: onChange}
}

// Resolve 解析指定 id 的详情；切换 id 会使在途请求的结果作废.
func (r *DetailResolver) Resolve(ctx context.Context, id string) {
	r.mu.Lock()
	if r.closed || id == "" {
		r.mu.Unlock()
		return
	}

	r.id = id
	r.state = DetailLoading
	r.detail = nil
	r.err = nil
	r.gen++
	gen := r.gen
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)

	go func() {
		detail, err := r.gw.GetAsset(ctx, id)
		r.apply(gen, id, detail, err)
	}()
}

// Clear 清空当前详情，回到 idle；在途请求的结果会被丢弃.
func (r *DetailResolver) Clear() {
	r.mu.Lock()
	r.id = ""
	r.state = DetailIdle
	r.detail = nil
	r.err = nil
	r.gen++
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// Snapshot 返回当前状态的稳定拷贝.
func (r *DetailResolver) Snapshot() DetailSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked()
}

// Close 关闭解析器.
func (r *DetailResolver) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *DetailResolver) apply(gen uint64, id string, detail *AssetDetail, err error) {
	r.mu.Lock()
	if r.closed || gen != r.gen || id != r.id {
		r.mu.Unlock()
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		r.state = DetailNotFound
		r.detail = nil
		r.err = nil
	case err != nil:
		r.state = DetailError
		r.detail = nil
		r.err = err
	default:
		r.state = DetailSuccess
		r.detail = detail
		r.err = nil
	}

	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

func (r *DetailResolver) snapshotLocked() DetailSnapshot {
	return DetailSnapshot{State: r.state, ID: r.id, Detail: r.detail, Err: r.err}
}

func (r *DetailResolver) notify(snap DetailSnapshot) {
	if r.onChange != nil {
		r.onChange(snap)
	}
}
