package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultThumbURLTTL       = 900 // 缩略图预签名URL有效期（秒）
	DefaultListCacheTTL      = 30  // 列表响应缓存TTL（秒）
	DefaultRefDataTTL        = 300 // 属性/角色参考数据缓存TTL（秒）
	DefaultAgentOfflineAfter = 180 // 心跳超过该秒数视为离线
)

// AssetsConfig 资产查询相关配置.
type AssetsConfig struct {
	ThumbURLTTL       int  `mapstructure:"thumb_url_ttl"       rule:"min=60,max=86400"`
	ListCacheTTL      int  `mapstructure:"list_cache_ttl"      rule:"min=0,max=3600"`
	RefDataTTL        int  `mapstructure:"refdata_ttl"         rule:"min=0,max=86400"`
	ListCacheEnabled  bool `mapstructure:"list_cache_enabled"`
	AgentOfflineAfter int  `mapstructure:"agent_offline_after" rule:"min=30"`
}

// GetThumbURLTTL 返回预签名URL有效期.
func (c *AssetsConfig) GetThumbURLTTL() time.Duration {
	return time.Duration(c.ThumbURLTTL) * time.Second
}

// GetListCacheTTL 返回列表缓存TTL.
func (c *AssetsConfig) GetListCacheTTL() time.Duration {
	return time.Duration(c.ListCacheTTL) * time.Second
}

// GetRefDataTTL 返回参考数据缓存TTL.
func (c *AssetsConfig) GetRefDataTTL() time.Duration {
	return time.Duration(c.RefDataTTL) * time.Second
}

// GetAgentOfflineAfter 返回心跳离线阈值.
func (c *AssetsConfig) GetAgentOfflineAfter() time.Duration {
	return time.Duration(c.AgentOfflineAfter) * time.Second
}

// setDefaults 设置资产配置的默认值.
func (c *AssetsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("assets.thumb_url_ttl", DefaultThumbURLTTL)
	v.SetDefault("assets.list_cache_ttl", DefaultListCacheTTL)
	v.SetDefault("assets.refdata_ttl", DefaultRefDataTTL)
	v.SetDefault("assets.list_cache_enabled", true)
	v.SetDefault("assets.agent_offline_after", DefaultAgentOfflineAfter)
}
