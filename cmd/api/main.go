// querylab API服务入口
//
// 启动流程:加载配置 → 初始化日志/指标 → 连接MySQL/Redis →
// 自动建表 → 手工装配各层依赖 → 启动HTTP服务(优雅关停)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiebiao/querylab/internal/application/reporting"
	"github.com/xiebiao/querylab/internal/application/seeding"
	"github.com/xiebiao/querylab/internal/infrastructure/config"
	"github.com/xiebiao/querylab/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/querylab/internal/infrastructure/persistence/redis"
	httpiface "github.com/xiebiao/querylab/internal/interface/http"
	"github.com/xiebiao/querylab/internal/interface/http/handler"
	"github.com/xiebiao/querylab/pkg/logger"
	"github.com/xiebiao/querylab/pkg/metrics"
)

func main() {
	// 1. 配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 日志与指标
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.EnableCaller); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	metrics.InitMetrics()

	// 3. MySQL
	db, err := mysql.NewDB(cfg)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("连接MySQL失败")
	}

	// 4. Redis(缓存不可用时降级为直接查库,不阻断启动)
	var revenueCache *redis.ReportCache
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		logger.L().Warn().Err(err).Msg("连接Redis失败,报表缓存关闭")
	} else {
		revenueCache = redis.NewReportCache(redisClient, cfg.Report.CacheTTL)
	}

	// 5. 手工装配(由内向外:仓储 → 用例 → 处理器 → 路由)
	reportRepo := mysql.NewReportRepository(db)
	seedRepo := mysql.NewSeedRepository(db)

	reportHandler := handler.NewReportHandler(
		reporting.NewBookListingUseCase(reportRepo),
		reporting.NewAuthorListingUseCase(reportRepo),
		reporting.NewBooksWithReviewsUseCase(reportRepo),
		reporting.NewAuthorStatsUseCase(reportRepo),
		reporting.NewMonthlyRevenueUseCase(reportRepo, cacheOrNil(revenueCache)),
	)
	seedHandler := handler.NewSeedHandler(
		seeding.NewPopulateUseCase(seedRepo, invalidatorOrNil(revenueCache)),
	)

	router := httpiface.NewRouter(cfg, reportHandler, seedHandler)

	// 6. HTTP服务与优雅关停
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.L().Info().Int("port", cfg.Server.Port).Msg("querylab服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("HTTP服务异常退出")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info().Msg("收到退出信号,开始关停")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error().Err(err).Msg("关停HTTP服务失败")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.L().Info().Msg("服务已退出")
}

// cacheOrNil 把可能为nil的具体类型转成接口
// 直接传*redis.ReportCache的nil值会得到非nil接口,导致空指针调用
func cacheOrNil(c *redis.ReportCache) reporting.RevenueCache {
	if c == nil {
		return nil
	}
	return c
}

func invalidatorOrNil(c *redis.ReportCache) seeding.CacheInvalidator {
	if c == nil {
		return nil
	}
	return c
}
