// Package cache 在 KV 存储之上提供类型安全的泛型缓存.
//
// 库内两类热点数据走这里：资产列表的响应页（assets:list:v1:*，
// 由扫描/打标事件批量失效）和分类参考数据.值用 sonic 做 JSON
// 序列化，TTL 交给底层 KV 后端解释.
//
// 基本用法:
//
//	c := cache.NewCache(kvStore)
//
//	// 缓存一页列表
//	err := cache.Set(ctx, c, "assets:list:v1:9f2c", page, time.Minute)
//
//	// 读取
//	page, err := cache.Get[ListPage](ctx, c, "assets:list:v1:9f2c")
//
//	// 读穿模式
//	page, err := cache.GetOrSet(ctx, c, key, loadPageFromDB, time.Minute)
//
// 后端由 kv.KVStore 决定（内存 / Redis / NATS KV / Groupcache），
// 线程安全与 TTL 精度取决于所选后端；缓存读写失败从不影响主流程，
// GetOrSet 在写缓存失败时仍返回新取到的值.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/u2giants/popdam2/pkg/internal/storage/kv"
)

// Cache 基于KV存储的缓存实现.
type Cache struct {
	kvStore kv.KVStore
}

// NewCache 创建一个新的缓存实例.
func NewCache(kvStore kv.KVStore) *Cache {
	return &Cache{
		kvStore: kvStore,
	}
}

// Get 泛型获取缓存值；键不存在或反序列化失败均返回错误.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, key, data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, key)
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, key)
}

// GetOrSet 命中直接返回，未命中调 getter 取值并回填.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	var zero T

	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	value, err := getter()
	if err != nil {
		return zero, err
	}

	// 回填失败不向上抛，值已经拿到
	if setErr := Set(ctx, c, key, value, ttl); setErr != nil {
		return value, nil
	}

	return value, nil
}

// Clear 清空底层 KV 中的所有键.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.kvStore.Keys(ctx, "*")
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil {
			return delErr
		}
	}

	return nil
}
