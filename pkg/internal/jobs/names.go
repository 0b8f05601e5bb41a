package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobInvitationPurge   = "invitations.purge_expired"
	JobAgentOfflineSweep = "agents.offline_sweep"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronInvitationPurge   = "15 3 * * *" // 每天 03:15
	CronAgentOfflineSweep = "* * * * *"  // 每分钟
)
