// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/u2giants/popdam2/pkg/configs"
	ctxPkg "github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/service"
	"github.com/u2giants/popdam2/pkg/internal/storage"
	"github.com/u2giants/popdam2/pkg/log"
	"github.com/u2giants/popdam2/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:15 清理过期的注册邀请
//   - 每分钟扫描心跳超时的 agent 并标记离线
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:15 清理过期邀请
	_ = sched.AddCron(JobInvitationPurge, CronInvitationPurge, runInvitationPurge, baseCtx)

	// 每分钟扫描离线 agent
	_ = sched.AddCron(JobAgentOfflineSweep, CronAgentOfflineSweep, runAgentOfflineSweep, baseCtx)

	return nil
}

// runInvitationPurge 删除已过期的注册邀请记录及其 KV 缓存.
func runInvitationPurge(ctx context.Context) {
	l := log.Logger().With().Str("job", JobInvitationPurge).Logger()

	svc := service.NewAdminService(ctx)

	n, err := svc.PurgeExpiredInvitations(ctx)
	if err != nil {
		l.Error().Err(err).Msg("purge expired invitations failed")
		return
	}

	if n > 0 {
		l.Info().Int64("purged", n).Msg("purged expired invitations")
	}
}

// runAgentOfflineSweep 将心跳超过阈值的 agent 置为 offline.
func runAgentOfflineSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobAgentOfflineSweep).Logger()

	offlineAfter := configs.GetConfig().Assets.GetAgentOfflineAfter()
	svc := service.NewAdminService(ctx)

	n, err := svc.SweepOfflineAgents(ctx, offlineAfter)
	if err != nil {
		l.Error().Err(err).Msg("agent offline sweep failed")
		return
	}

	if n > 0 {
		l.Info().Int64("swept", n).Dur("offline_after", offlineAfter).Msg("marked agents offline")
	}
}
