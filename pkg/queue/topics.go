// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 统一管理事件主题，避免拼写漂移.
// 主题命名规范：pd.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
//
// 发布方：
//   - 扫描 agent（NAS 端）：资产入库/更新/删除、扫描任务进度
//   - 渲染 agent：缩略图生命周期
//
// 服务端消费资产与缩略图事件，用于落库与列表缓存失效.
const (
	// 资产领域.

	TopicAssetIngested = "pd.asset.ingested" // 扫描发现新资产并完成入库
	TopicAssetUpdated  = "pd.asset.updated"  // 资产元数据变更（改名、移动、重新打标）
	TopicAssetDeleted  = "pd.asset.deleted"  // 资产在共享目录中消失（软删除）

	// 缩略图生命周期领域.

	TopicThumbQueued     = "pd.thumb.queued"     // 已进入渲染队列
	TopicThumbGenerating = "pd.thumb.generating" // 渲染 agent 开始生成
	TopicThumbDone       = "pd.thumb.done"       // 生成完成，对象已写入缩略图桶
	TopicThumbFailed     = "pd.thumb.failed"     // 生成失败，带错误信息

	// 扫描任务领域.

	TopicScanStarted   = "pd.scan.started"   // 扫描任务开始
	TopicScanCompleted = "pd.scan.completed" // 扫描任务完成，带统计
	TopicScanFailed    = "pd.scan.failed"    // 扫描任务失败
)

// AssetTopics 服务端需要订阅的资产域主题.
func AssetTopics() []string {
	return []string{TopicAssetIngested, TopicAssetUpdated, TopicAssetDeleted}
}

// ThumbTopics 服务端需要订阅的缩略图域主题.
func ThumbTopics() []string {
	return []string{TopicThumbQueued, TopicThumbGenerating, TopicThumbDone, TopicThumbFailed}
}

// ScanTopics 服务端需要订阅的扫描任务域主题.
func ScanTopics() []string {
	return []string{TopicScanStarted, TopicScanCompleted, TopicScanFailed}
}
