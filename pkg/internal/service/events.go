package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm/clause"

	"github.com/u2giants/popdam2/pkg/configs"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage/db"
	"github.com/u2giants/popdam2/pkg/internal/storage/kv"
	"github.com/u2giants/popdam2/pkg/internal/storage/mq"
	nlog "github.com/u2giants/popdam2/pkg/log"
	"github.com/u2giants/popdam2/pkg/queue"
)

// AssetListCachePrefix 列表响应缓存的键前缀；事件消费侧按前缀失效.
const AssetListCachePrefix = "assets:list:v1:"

// EventConsumer 消费 agent 发布的资产/缩略图/扫描事件：
// 把缩略图状态迁移落到资产行，维护扫描任务簿记，并使列表响应缓存失效.
type EventConsumer struct {
	dbc *db.Client
	kvc *kv.Client
	mqc *mq.Client
}

// NewEventConsumer 创建事件消费者.
func NewEventConsumer(c context.Context) *EventConsumer {
	return &EventConsumer{
		dbc: ctxPkg.GetDBClient(c),
		kvc: ctxPkg.GetKVClient(c),
		mqc: ctxPkg.GetMQClient(c),
	}
}

// Start 按事件配置订阅各主题；每个主题一个消费 goroutine，随 ctx 退出.
func (e *EventConsumer) Start(ctx context.Context) error {
	if e.mqc == nil {
		return errors.New("mq not initialized")
	}

	if e.dbc == nil || e.dbc.GetDB() == nil {
		return errors.New("db not initialized")
	}

	cfg := configs.GetConfig().Events

	type sub struct {
		topic   string
		enabled bool
		handle  func(ctx context.Context, msg *message.Message) error
	}

	subs := []sub{
		{queue.TopicAssetIngested, cfg.Asset.Ingested, e.handleAssetIngested},
		{queue.TopicAssetUpdated, cfg.Asset.Updated, e.handleAssetUpdated},
		{queue.TopicAssetDeleted, cfg.Asset.Deleted, e.handleAssetDeleted},
		{queue.TopicThumbQueued, cfg.Thumb.Queued, e.handleThumbQueued},
		{queue.TopicThumbGenerating, cfg.Thumb.Generating, e.handleThumbGenerating},
		{queue.TopicThumbDone, cfg.Thumb.Done, e.handleThumbDone},
		{queue.TopicThumbFailed, cfg.Thumb.Failed, e.handleThumbFailed},
		{queue.TopicScanStarted, cfg.Scan.Started, e.handleScanStarted},
		{queue.TopicScanCompleted, cfg.Scan.Completed, e.handleScanCompleted},
		{queue.TopicScanFailed, cfg.Scan.Failed, e.handleScanFailed},
	}

	for _, s := range subs {
		if !s.enabled {
			continue
		}

		msgs, err := e.mqc.Subscribe(ctx, s.topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}

		go e.consume(ctx, s.topic, msgs, s.handle)
	}

	return nil
}

// consume 逐条处理消息；处理失败 Nack 交由 broker 重投.
func (e *EventConsumer) consume(ctx context.Context, topic string, msgs <-chan *message.Message, handle func(context.Context, *message.Message) error) {
	logger := nlog.Logger().With().Str("topic", topic).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info().Msg("event stream closed")
				return
			}

			if err := handle(ctx, msg); err != nil {
				logger.Error().Err(err).Str("message_id", msg.UUID).Msg("handle event failed")
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}
}

func (e *EventConsumer) handleAssetIngested(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseAssetIngested(msg)
	if err != nil {
		return err
	}

	p := evt.Payload
	if p.Asset.AssetID == "" {
		return errors.New("asset ingested without asset_id")
	}

	row := model.Asset{
		ID:              p.Asset.AssetID,
		ShareID:         p.Asset.ShareID,
		RelativePath:    p.Asset.RelativePath,
		FileName:        p.Asset.FileName,
		FileType:        model.FileType(p.FileType),
		FileSizeBytes:   p.FileSizeBytes,
		ThumbnailStatus: model.ThumbStatusPending,
	}

	if row.FileType == "" {
		row.FileType = model.FileTypeUnknown
	}

	// 同一 share+path 重复入库按更新处理（agent 重启后全量重扫）
	err = e.dbc.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "share_id"}, {Name: "relative_path"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_name", "file_type", "file_size_bytes", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert asset: %w", err)
	}

	e.invalidateListCache(ctx)

	return nil
}

func (e *EventConsumer) handleAssetUpdated(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseAssetUpdated(msg)
	if err != nil {
		return err
	}

	p := evt.Payload

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if p.Asset.FileName != "" {
		updates["file_name"] = p.Asset.FileName
	}

	if p.Asset.RelativePath != "" {
		updates["relative_path"] = p.Asset.RelativePath
	}

	// 内容变更的资产退回 pending，等待重新渲染
	for _, f := range p.Fields {
		if f == "content" || f == "file_size_bytes" {
			updates["thumbnail_status"] = model.ThumbStatusPending
			updates["thumbnail_key"] = nil
			updates["thumbnail_error"] = nil

			break
		}
	}

	err = e.dbc.GetDB().WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ?", p.Asset.AssetID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}

	e.invalidateListCache(ctx)

	return nil
}

func (e *EventConsumer) handleAssetDeleted(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseAssetDeleted(msg)
	if err != nil {
		return err
	}

	err = e.dbc.GetDB().WithContext(ctx).
		Delete(&model.Asset{}, "id = ?", evt.Payload.Asset.AssetID).Error
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	e.invalidateListCache(ctx)

	return nil
}

func (e *EventConsumer) handleThumbQueued(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseThumbQueued(msg)
	if err != nil {
		return err
	}

	return e.setThumbState(ctx, evt.Payload.Asset.AssetID, model.ThumbStatusQueued, nil, nil)
}

func (e *EventConsumer) handleThumbGenerating(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseThumbGenerating(msg)
	if err != nil {
		return err
	}

	return e.setThumbState(ctx, evt.Payload.Asset.AssetID, model.ThumbStatusGenerating, nil, nil)
}

func (e *EventConsumer) handleThumbDone(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseThumbDone(msg)
	if err != nil {
		return err
	}

	if evt.Payload.ObjectKey == "" {
		return errors.New("thumb done without object_key")
	}

	key := evt.Payload.ObjectKey

	return e.setThumbState(ctx, evt.Payload.Asset.AssetID, model.ThumbStatusDone, &key, nil)
}

func (e *EventConsumer) handleThumbFailed(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseThumbFailed(msg)
	if err != nil {
		return err
	}

	reason := evt.Payload.Error
	if reason == "" {
		reason = "unknown"
	}

	return e.setThumbState(ctx, evt.Payload.Asset.AssetID, model.ThumbStatusError, nil, &reason)
}

// setThumbState 迁移缩略图状态并保持不变式：
// key 仅在 done 时非空，error 仅在 error 时非空.
func (e *EventConsumer) setThumbState(ctx context.Context, assetID string, status model.ThumbStatus, key, reason *string) error {
	if assetID == "" {
		return errors.New("thumb event without asset_id")
	}

	updates := map[string]any{
		"thumbnail_status": status,
		"thumbnail_key":    nil,
		"thumbnail_error":  nil,
	}

	if status == model.ThumbStatusDone && key != nil {
		updates["thumbnail_key"] = *key
	}

	if status == model.ThumbStatusError && reason != nil {
		updates["thumbnail_error"] = *reason
	}

	err := e.dbc.GetDB().WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ?", assetID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("set thumb state %s: %w", status, err)
	}

	e.invalidateListCache(ctx)

	return nil
}

func (e *EventConsumer) handleScanStarted(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseScanStarted(msg)
	if err != nil {
		return err
	}

	p := evt.Payload
	if p.ScanJobID == "" {
		return errors.New("scan started without scan_job_id")
	}

	job := model.ScanJob{
		ID:        p.ScanJobID,
		AgentID:   p.AgentID,
		ShareID:   p.ShareID,
		RootPath:  p.RootPath,
		Status:    model.ScanJobRunning,
		StartedAt: evt.Header.OccurredAt,
	}

	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}

	err = e.dbc.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "started_at"}),
		}).
		Create(&job).Error
	if err != nil {
		return fmt.Errorf("record scan start: %w", err)
	}

	if p.AgentID != "" {
		now := time.Now().UTC()
		_ = e.dbc.GetDB().WithContext(ctx).
			Model(&model.Agent{}).
			Where("id = ?", p.AgentID).
			Updates(map[string]any{
				"status":            model.AgentStatusOnline,
				"last_heartbeat_at": now,
				"last_scan_at":      now,
			}).Error
	}

	return nil
}

func (e *EventConsumer) handleScanCompleted(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseScanCompleted(msg)
	if err != nil {
		return err
	}

	p := evt.Payload
	now := time.Now().UTC()

	err = e.dbc.GetDB().WithContext(ctx).
		Model(&model.ScanJob{}).
		Where("id = ?", p.ScanJobID).
		Updates(map[string]any{
			"status":         model.ScanJobCompleted,
			"files_seen":     p.FilesSeen,
			"files_ingested": p.FilesIngested,
			"files_updated":  p.FilesUpdated,
			"files_removed":  p.FilesRemoved,
			"completed_at":   now,
		}).Error
	if err != nil {
		return fmt.Errorf("record scan completion: %w", err)
	}

	return nil
}

func (e *EventConsumer) handleScanFailed(ctx context.Context, msg *message.Message) error {
	evt, err := queue.ParseScanFailed(msg)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	err = e.dbc.GetDB().WithContext(ctx).
		Model(&model.ScanJob{}).
		Where("id = ?", evt.Payload.ScanJobID).
		Updates(map[string]any{
			"status":       model.ScanJobFailed,
			"error":        evt.Payload.Error,
			"completed_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("record scan failure: %w", err)
	}

	return nil
}

// invalidateListCache 清掉列表响应缓存；KV 不可用时静默跳过.
func (e *EventConsumer) invalidateListCache(ctx context.Context) {
	if e.kvc == nil {
		return
	}

	keys, err := e.kvc.Keys(ctx, AssetListCachePrefix+"*")
	if err != nil {
		return
	}

	for _, key := range keys {
		_ = e.kvc.Delete(ctx, key)
	}
}
