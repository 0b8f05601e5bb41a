// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/u2giants/popdam2/pkg/api"
	appcache "github.com/u2giants/popdam2/pkg/cache"
	"github.com/u2giants/popdam2/pkg/configs"
	"github.com/u2giants/popdam2/pkg/context"
	"github.com/u2giants/popdam2/pkg/internal/jobs"
	"github.com/u2giants/popdam2/pkg/internal/router"
	"github.com/u2giants/popdam2/pkg/internal/service"
	"github.com/u2giants/popdam2/pkg/internal/storage"
	"github.com/u2giants/popdam2/pkg/log"
	"github.com/u2giants/popdam2/pkg/metrics"
	"github.com/u2giants/popdam2/pkg/middleware"
	"github.com/u2giants/popdam2/pkg/scheduler"
	"github.com/u2giants/popdam2/pkg/tracing"
)

type App struct {
	Engine *gin.Engine
	config *configs.AppConfig
	sched  *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()
	engine := gin.New()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	// 初始化追踪
	config := configs.GetConfig()
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	baseCtx := context.WithStorageManager(ctx, manager)

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.AuthMiddleware(config.Auth),
		middleware.RoleMiddleware(),
	)

	if config.RateLimit.Enabled {
		engine.Use(middleware.RateLimitMiddleware(config.RateLimit))
	}

	if config.CircuitBreaker.Enabled {
		engine.Use(middleware.CircuitBreakerMiddleware(config.CircuitBreaker))
	}

	// 定时任务：过期邀请清理、agent 离线扫描
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	sched.Start()
	engine.Use(middleware.SchedulerMiddleware(sched))

	// 列表响应缓存：键带统一前缀，事件消费侧按前缀失效
	var listCache gin.HandlerFunc
	if config.Assets.ListCacheEnabled && manager.KV != nil {
		c := appcache.NewCache(manager.KV)
		listCache = router.AssetListCache(c, config.Assets.GetListCacheTTL())
	}

	api.RegisterGroup(engine, listCache)

	// 订阅 agent 事件流（资产/缩略图/扫描）
	if config.Events.Enabled {
		consumer := service.NewEventConsumer(baseCtx)
		if err := consumer.Start(baseCtx); err != nil {
			l.Error().Err(err).Msg("event consumer start failed")
		}
	}

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine: engine,
		config: config,
		sched:  sched,
	}
}

func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// Stop 停止调度器等后台组件.
func (a *App) Stop() error {
	if a.sched != nil {
		return a.sched.Stop()
	}

	return nil
}
