package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件订阅/发布的开关（全局与分领域）。
type EventsConfig struct {
	Enabled bool              `mapstructure:"enabled"` // 总开关
	Asset   AssetEventsConfig `mapstructure:"asset"`
	Thumb   ThumbEventsConfig `mapstructure:"thumb"`
	Scan    ScanEventsConfig  `mapstructure:"scan"`
}

// AssetEventsConfig 资产领域的事件开关，扫描 agent 发布、服务端消费。
type AssetEventsConfig struct {
	Ingested bool `mapstructure:"ingested"`
	Updated  bool `mapstructure:"updated"`
	Deleted  bool `mapstructure:"deleted"`
}

// ThumbEventsConfig 缩略图生命周期事件开关，渲染 agent 发布。
type ThumbEventsConfig struct {
	Queued     bool `mapstructure:"queued"`
	Generating bool `mapstructure:"generating"`
	Done       bool `mapstructure:"done"`
	Failed     bool `mapstructure:"failed"`
}

// ScanEventsConfig 扫描任务进度事件开关。
type ScanEventsConfig struct {
	Started   bool `mapstructure:"started"`
	Completed bool `mapstructure:"completed"`
	Failed    bool `mapstructure:"failed"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 资产事件：列表缓存失效依赖这些，默认全开
	v.SetDefault("events.asset.ingested", true)
	v.SetDefault("events.asset.updated", true)
	v.SetDefault("events.asset.deleted", true)

	// 缩略图事件：状态落库依赖这些，默认全开
	v.SetDefault("events.thumb.queued", true)
	v.SetDefault("events.thumb.generating", true)
	v.SetDefault("events.thumb.done", true)
	v.SetDefault("events.thumb.failed", true)

	// 扫描进度事件：仅做任务簿记，进行中事件量大，默认只收起止
	v.SetDefault("events.scan.started", true)
	v.SetDefault("events.scan.completed", true)
	v.SetDefault("events.scan.failed", true)
}
