package cache_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/u2giants/popdam2/pkg/cache"
)

// listPage 资产列表缓存页的最小形态，对应 assets:list:v1:* 下存的内容.
type listPage struct {
	IDs   []string `json:"ids"`
	Total int64    `json:"total"`
	Limit int      `json:"limit"`
}

// memStore 进程内 KV，只为单元测试服务；Keys 支持前缀通配.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memStore) Keys(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

func (m *memStore) Close() error { return nil }

func TestCacheRoundTripListPage(t *testing.T) {
	c := cache.NewCache(newMemStore())
	ctx := context.Background()

	if _, err := cache.Get[listPage](ctx, c, "assets:list:v1:miss"); err == nil {
		t.Error("expected error for missing key")
	}

	page := listPage{IDs: []string{"a1", "a2", "a3"}, Total: 97, Limit: 48}
	if err := cache.Set(ctx, c, "assets:list:v1:abc123", page, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.Get[listPage](ctx, c, "assets:list:v1:abc123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Total != page.Total || got.Limit != page.Limit || len(got.IDs) != 3 || got.IDs[0] != "a1" {
		t.Errorf("got %+v, want %+v", got, page)
	}
}

func TestCacheDeleteAndExists(t *testing.T) {
	c := cache.NewCache(newMemStore())
	ctx := context.Background()

	key := "assets:list:v1:page2"
	if err := cache.Set(ctx, c, key, listPage{Total: 12}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	exists, err := c.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("exists = %v err = %v, want true", exists, err)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}

	exists, err = c.Exists(ctx, key)
	if err != nil || exists {
		t.Fatalf("exists after delete = %v err = %v, want false", exists, err)
	}
}

func TestCacheGetOrSetFillsOnce(t *testing.T) {
	c := cache.NewCache(newMemStore())
	ctx := context.Background()

	calls := 0
	loader := func() (listPage, error) {
		calls++
		return listPage{IDs: []string{"hero.psd"}, Total: 1, Limit: 48}, nil
	}

	first, err := cache.GetOrSet(ctx, c, "assets:list:v1:k1", loader, time.Minute)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	second, err := cache.GetOrSet(ctx, c, "assets:list:v1:k1", loader, time.Minute)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	if first.Total != second.Total || len(first.IDs) != len(second.IDs) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

func TestCacheGetOrSetLoaderError(t *testing.T) {
	c := cache.NewCache(newMemStore())
	ctx := context.Background()

	wantErr := errors.New("db unavailable")
	_, err := cache.GetOrSet(ctx, c, "assets:list:v1:bad", func() (listPage, error) {
		return listPage{}, wantErr
	}, 0)

	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestCacheClearDropsAllListPages(t *testing.T) {
	store := newMemStore()
	c := cache.NewCache(store)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("assets:list:v1:page%d", i)
		if err := cache.Set(ctx, c, key, listPage{Total: int64(i)}, 0); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if len(store.data) != 0 {
		t.Errorf("store still holds %d entries after clear", len(store.data))
	}
}

func TestCacheGenericScalarAndSlice(t *testing.T) {
	c := cache.NewCache(newMemStore())
	ctx := context.Background()

	if err := cache.Set(ctx, c, "assets:count:v1", int64(1204), 0); err != nil {
		t.Fatalf("set count: %v", err)
	}

	total, err := cache.Get[int64](ctx, c, "assets:count:v1")
	if err != nil || total != 1204 {
		t.Fatalf("count = %d err = %v, want 1204", total, err)
	}

	tags := []string{"mermaid", "villain", "s02"}
	if err := cache.Set(ctx, c, "assets:tags:a1", tags, 0); err != nil {
		t.Fatalf("set tags: %v", err)
	}

	got, err := cache.Get[[]string](ctx, c, "assets:tags:a1")
	if err != nil {
		t.Fatalf("get tags: %v", err)
	}

	if len(got) != len(tags) || got[0] != "mermaid" || got[2] != "s02" {
		t.Errorf("tags = %v, want %v", got, tags)
	}
}
