package browse

import (
	"context"
	"sync"
	"time"

	"github.com/u2giants/popdam2/pkg/cache"
)

// 参考数据的KV缓存键.
const (
	refDataPropsKey     = "refdata:properties"
	refDataCharsKeyBase = "refdata:characters:"
)

// RefData 作品/角色参考数据的读穿缓存.
// 作品列表一次性全量拉取（名称升序）；角色列表按可选的作品 id 作键，
// 键变化（含切回"不限作品"）时重新拉取。进程内持有一份内存副本，
// 可选地在下层挂一层KV缓存以跨进程共享.
type RefData struct {
	mu    sync.Mutex
	gw    Gateway
	cache *cache.Cache
	ttl   time.Duration

	props       []Property
	propsLoaded bool

	chars       []Character
	charsKey    string
	charsLoaded bool
}

// RefDataOption 配置 RefData.
type RefDataOption func(*RefData)

// WithRefCache 在内存副本下挂一层KV缓存.
func WithRefCache(c *cache.Cache, ttl time.Duration) RefDataOption {
	return func(r *RefData) {
		r.cache = c
		r.ttl = ttl
	}
}

// NewRefData 创建参考数据缓存.
func NewRefData(gw Gateway, opts ...RefDataOption) *RefData {
	r := &RefData{gw: gw}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Properties 返回全部作品（名称升序）；首次调用时拉取，之后走内存副本.
func (r *RefData) Properties(ctx context.Context) ([]Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.propsLoaded {
		return copyProps(r.props), nil
	}

	props, err := r.fetchProperties(ctx)
	if err != nil {
		return nil, err
	}

	r.props = props
	r.propsLoaded = true

	return copyProps(props), nil
}

// Characters 返回角色（名称升序）；propertyID 为空表示不限作品.
// 缓存键即 propertyID，键变化时丢弃旧副本并重新拉取.
func (r *RefData) Characters(ctx context.Context, propertyID string) ([]Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.charsLoaded && r.charsKey == propertyID {
		return copyChars(r.chars), nil
	}

	chars, err := r.fetchCharacters(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	r.chars = chars
	r.charsKey = propertyID
	r.charsLoaded = true

	return copyChars(chars), nil
}

// Invalidate 丢弃内存副本；下次读取时重新拉取.
// 分类数据在管理端变更后由调用方触发.
func (r *RefData) Invalidate(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.propsLoaded = false
	r.props = nil
	r.charsLoaded = false
	r.chars = nil

	if r.cache != nil {
		_ = r.cache.Delete(ctx, refDataPropsKey)
		_ = r.cache.Delete(ctx, refDataCharsKeyBase+"all")

		if r.charsKey != "" {
			_ = r.cache.Delete(ctx, refDataCharsKeyBase+r.charsKey)
		}
	}

	r.charsKey = ""
}

func (r *RefData) fetchProperties(ctx context.Context) ([]Property, error) {
	if r.cache == nil {
		return r.gw.ListProperties(ctx)
	}

	return cache.GetOrSet(ctx, r.cache, refDataPropsKey, func() ([]Property, error) {
		return r.gw.ListProperties(ctx)
	}, r.ttl)
}

func (r *RefData) fetchCharacters(ctx context.Context, propertyID string) ([]Character, error) {
	if r.cache == nil {
		return r.gw.ListCharacters(ctx, propertyID)
	}

	key := refDataCharsKeyBase + "all"
	if propertyID != "" {
		key = refDataCharsKeyBase + propertyID
	}

	return cache.GetOrSet(ctx, r.cache, key, func() ([]Character, error) {
		return r.gw.ListCharacters(ctx, propertyID)
	}, r.ttl)
}

func copyProps(in []Property) []Property {
	out := make([]Property, len(in))
	copy(out, in)

	return out
}

func copyChars(in []Character) []Character {
	out := make([]Character, len(in))
	copy(out, in)

	return out
}
