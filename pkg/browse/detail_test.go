package browse_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/u2giants/popdam2/pkg/browse"
)

type detailHarness struct {
	res   *browse.DetailResolver
	snaps chan browse.DetailSnapshot
}

func newDetailHarness(t *testing.T, gw *fakeGateway) *detailHarness {
	t.Helper()

	h := &detailHarness{snaps: make(chan browse.DetailSnapshot, 64)}
	h.res = browse.NewDetailResolver(gw, func(s browse.DetailSnapshot) {
		h.snaps <- s
	})
	t.Cleanup(h.res.Close)

	return h
}

func (h *detailHarness) waitState(t *testing.T, want browse.DetailState) browse.DetailSnapshot {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-h.snaps:
			if s.State == want {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %v, last snapshot: %+v", want, h.res.Snapshot())
		}
	}
}

func TestDetailResolverSuccess(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(_ context.Context, id string) (*browse.AssetDetail, error) {
			return &browse.AssetDetail{Asset: browse.Asset{ID: id, FileName: "hero.psd"}}, nil
		},
	}
	h := newDetailHarness(t, gw)

	h.res.Resolve(context.Background(), "a1")
	h.waitState(t, browse.DetailLoading)

	s := h.waitState(t, browse.DetailSuccess)
	if s.Detail == nil || s.Detail.ID != "a1" {
		t.Fatalf("snapshot = %+v, want detail a1", s)
	}
}

func TestDetailResolverNotFoundDistinctFromError(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(_ context.Context, id string) (*browse.AssetDetail, error) {
			if id == "missing" {
				return nil, fmt.Errorf("get asset %s: %w", id, browse.ErrNotFound)
			}

			return nil, errors.New("gateway timeout")
		},
	}
	h := newDetailHarness(t, gw)

	h.res.Resolve(context.Background(), "missing")

	s := h.waitState(t, browse.DetailNotFound)
	if s.Err != nil || s.Detail != nil {
		t.Fatalf("not-found snapshot carries err/detail: %+v", s)
	}

	h.res.Resolve(context.Background(), "broken")

	s = h.waitState(t, browse.DetailError)
	if s.Err == nil {
		t.Fatal("error snapshot has nil err")
	}
}

func TestDetailResolverStaleResponseDiscarded(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{
		getFn: func(_ context.Context, id string) (*browse.AssetDetail, error) {
			if id == "slow" {
				<-gate
			}

			return &browse.AssetDetail{Asset: browse.Asset{ID: id}}, nil
		},
	}
	h := newDetailHarness(t, gw)

	h.res.Resolve(context.Background(), "slow")
	h.waitState(t, browse.DetailLoading)

	h.res.Resolve(context.Background(), "fast")
	s := h.waitState(t, browse.DetailSuccess)
	if s.Detail.ID != "fast" {
		t.Fatalf("snapshot = %+v, want fast", s)
	}

	// 放行慢请求：其 id 已不是当前 id，结果必须丢弃
	close(gate)
	time.Sleep(50 * time.Millisecond)

	final := h.res.Snapshot()
	if final.Detail == nil || final.Detail.ID != "fast" {
		t.Fatalf("stale response overwrote state: %+v", final)
	}
}

func TestDetailResolverClearInvalidatesInflight(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{
		getFn: func(_ context.Context, id string) (*browse.AssetDetail, error) {
			<-gate
			return &browse.AssetDetail{Asset: browse.Asset{ID: id}}, nil
		},
	}
	h := newDetailHarness(t, gw)

	h.res.Resolve(context.Background(), "a1")
	h.waitState(t, browse.DetailLoading)

	h.res.Clear()
	h.waitState(t, browse.DetailIdle)

	close(gate)
	time.Sleep(50 * time.Millisecond)

	if s := h.res.Snapshot(); s.State != browse.DetailIdle || s.Detail != nil {
		t.Fatalf("cleared resolver accepted stale result: %+v", s)
	}
}

func TestDetailResolverIgnoresEmptyID(t *testing.T) {
	h := newDetailHarness(t, &fakeGateway{})

	h.res.Resolve(context.Background(), "")
	time.Sleep(20 * time.Millisecond)

	if s := h.res.Snapshot(); s.State != browse.DetailIdle {
		t.Fatalf("empty id changed state: %+v", s)
	}
}
