package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者标识，如 agent 的 key id 或服务名.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 资产领域 --------------------------

// AssetRef 标识一条资产记录及其在共享目录中的位置.
type AssetRef struct {
	AssetID      string `json:"asset_id"`
	ShareID      string `json:"share_id,omitempty"`
	RelativePath string `json:"relative_path,omitempty"`
	FileName     string `json:"file_name,omitempty"`
}

// AssetIngestedPayload 扫描 agent 发现新资产并入库.
type AssetIngestedPayload struct {
	Asset         AssetRef `json:"asset"`
	FileType      string   `json:"file_type,omitempty"` // psd / ai / unknown
	FileSizeBytes int64    `json:"file_size_bytes,omitempty"`
	ScanJobID     string   `json:"scan_job_id,omitempty"`
}

// AssetUpdatedPayload 资产元数据变更（改名、移动、标签/关联重算）.
type AssetUpdatedPayload struct {
	Asset AssetRef `json:"asset"`
	// Fields 变更的字段名列表，消费者据此决定是否需要刷新缓存.
	Fields []string `json:"fields,omitempty"`
}

// AssetDeletedPayload 资产从共享目录中消失，服务端做软删除.
type AssetDeletedPayload struct {
	Asset     AssetRef `json:"asset"`
	ScanJobID string   `json:"scan_job_id,omitempty"`
}

// -------------------------- 缩略图生命周期领域 --------------------------

// ThumbQueuedPayload 资产进入渲染队列.
type ThumbQueuedPayload struct {
	Asset AssetRef `json:"asset"`
}

// ThumbGeneratingPayload 渲染 agent 开始生成缩略图.
type ThumbGeneratingPayload struct {
	Asset   AssetRef `json:"asset"`
	AgentID string   `json:"agent_id,omitempty"`
}

// ThumbDonePayload 缩略图生成完成，对象已写入缩略图桶.
type ThumbDonePayload struct {
	Asset     AssetRef `json:"asset"`
	ObjectKey string   `json:"object_key"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`
	SizeBytes int64    `json:"size_bytes,omitempty"`
}

// ThumbFailedPayload 缩略图生成失败.
type ThumbFailedPayload struct {
	Asset AssetRef `json:"asset"`
	Error string   `json:"error"`
	// Retryable 渲染 agent 判断是否值得重试（如源文件损坏则为 false）.
	Retryable bool `json:"retryable,omitempty"`
}

// -------------------------- 扫描任务领域 --------------------------

// ScanStartedPayload 扫描任务开始.
type ScanStartedPayload struct {
	ScanJobID string `json:"scan_job_id"`
	AgentID   string `json:"agent_id,omitempty"`
	ShareID   string `json:"share_id,omitempty"`
	RootPath  string `json:"root_path,omitempty"`
}

// ScanCompletedPayload 扫描任务完成，附带统计.
type ScanCompletedPayload struct {
	ScanJobID     string `json:"scan_job_id"`
	FilesSeen     int64  `json:"files_seen,omitempty"`
	FilesIngested int64  `json:"files_ingested,omitempty"`
	FilesUpdated  int64  `json:"files_updated,omitempty"`
	FilesRemoved  int64  `json:"files_removed,omitempty"`
	DurationMS    int64  `json:"duration_ms,omitempty"`
}

// ScanFailedPayload 扫描任务失败.
type ScanFailedPayload struct {
	ScanJobID string `json:"scan_job_id"`
	Error     string `json:"error"`
}
