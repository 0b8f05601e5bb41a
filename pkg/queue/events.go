package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishAssetIngested 发布 pd.asset.ingested 事件。
// 扫描 agent 在发现新资产并完成入库后调用，通知服务端刷新列表缓存。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishAssetIngested(pub message.Publisher, payload AssetIngestedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetIngested, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetIngested, msg)
}

// PublishAssetUpdated 发布 pd.asset.updated 事件。
func PublishAssetUpdated(pub message.Publisher, payload AssetUpdatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetUpdated, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetUpdated, msg)
}

// PublishAssetDeleted 发布 pd.asset.deleted 事件。
func PublishAssetDeleted(pub message.Publisher, payload AssetDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetDeleted, msg)
}

// PublishThumbDone 发布 pd.thumb.done 事件。渲染 agent 写入缩略图桶后调用。
func PublishThumbDone(pub message.Publisher, payload ThumbDonePayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicThumbDone, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicThumbDone, msg)
}

// PublishThumbFailed 发布 pd.thumb.failed 事件。
func PublishThumbFailed(pub message.Publisher, payload ThumbFailedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicThumbFailed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicThumbFailed, msg)
}

// ParseAssetIngested 将 Watermill 消息解析为强类型 Envelope（AssetIngestedPayload）。
func ParseAssetIngested(msg *message.Message) (Message[AssetIngestedPayload], error) {
	return ParseWatermillMessage[AssetIngestedPayload](msg)
}

// ParseAssetUpdated 解析 pd.asset.updated。
func ParseAssetUpdated(msg *message.Message) (Message[AssetUpdatedPayload], error) {
	return ParseWatermillMessage[AssetUpdatedPayload](msg)
}

// ParseAssetDeleted 解析 pd.asset.deleted。
func ParseAssetDeleted(msg *message.Message) (Message[AssetDeletedPayload], error) {
	return ParseWatermillMessage[AssetDeletedPayload](msg)
}

// ParseThumbQueued 解析 pd.thumb.queued。
func ParseThumbQueued(msg *message.Message) (Message[ThumbQueuedPayload], error) {
	return ParseWatermillMessage[ThumbQueuedPayload](msg)
}

// ParseThumbGenerating 解析 pd.thumb.generating。
func ParseThumbGenerating(msg *message.Message) (Message[ThumbGeneratingPayload], error) {
	return ParseWatermillMessage[ThumbGeneratingPayload](msg)
}

// ParseThumbDone 解析 pd.thumb.done。
func ParseThumbDone(msg *message.Message) (Message[ThumbDonePayload], error) {
	return ParseWatermillMessage[ThumbDonePayload](msg)
}

// ParseThumbFailed 解析 pd.thumb.failed。
func ParseThumbFailed(msg *message.Message) (Message[ThumbFailedPayload], error) {
	return ParseWatermillMessage[ThumbFailedPayload](msg)
}

// ParseScanStarted 解析 pd.scan.started。
func ParseScanStarted(msg *message.Message) (Message[ScanStartedPayload], error) {
	return ParseWatermillMessage[ScanStartedPayload](msg)
}

// ParseScanCompleted 解析 pd.scan.completed。
func ParseScanCompleted(msg *message.Message) (Message[ScanCompletedPayload], error) {
	return ParseWatermillMessage[ScanCompletedPayload](msg)
}

// ParseScanFailed 解析 pd.scan.failed。
func ParseScanFailed(msg *message.Message) (Message[ScanFailedPayload], error) {
	return ParseWatermillMessage[ScanFailedPayload](msg)
}
