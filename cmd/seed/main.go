// querylab 数据填充命令行工具
//
// 用法:
//
//	go run ./cmd/seed                      # 默认规模(20作者/100图书/200订单)
//	go run ./cmd/seed -books 500 -seed 42  # 指定规模与随机种子(可复现)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/xiebiao/querylab/internal/application/seeding"
	"github.com/xiebiao/querylab/internal/infrastructure/config"
	"github.com/xiebiao/querylab/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/querylab/pkg/logger"
)

func main() {
	authors := flag.Int("authors", 0, "作者数量(0取默认值)")
	books := flag.Int("books", 0, "图书数量(0取默认值)")
	orders := flag.Int("orders", 0, "订单数量(0取默认值)")
	seedValue := flag.Int64("seed", 0, "随机种子(0用当前时间)")
	timeout := flag.Duration("timeout", 5*time.Minute, "执行超时")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.EnableCaller); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("连接MySQL失败")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 命令行工具不连Redis:填充后的缓存失效靠TTL兜底,
	// 演示环境请求填充一般走HTTP接口
	uc := seeding.NewPopulateUseCase(mysql.NewSeedRepository(db), nil)

	start := time.Now()
	result, err := uc.Execute(ctx, seeding.PopulateRequest{
		Authors: *authors,
		Books:   *books,
		Orders:  *orders,
		Seed:    *seedValue,
	})
	if err != nil {
		logger.L().Fatal().Err(err).Msg("数据填充失败")
	}

	logger.L().Info().
		Int("users", result.Users).
		Int("authors", result.Authors).
		Int("categories", result.Categories).
		Int("publishers", result.Publishers).
		Int("books", result.Books).
		Int("reviews", result.Reviews).
		Int("orders", result.Orders).
		Int("order_items", result.OrderItems).
		Dur("elapsed", time.Since(start)).
		Msg("数据填充完成")
}
