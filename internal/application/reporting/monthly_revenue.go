package reporting

import (
	"context"
	"time"

	"github.com/xiebiao/querylab/internal/domain/report"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// RevenueCache 月度营收报表缓存接口(由infrastructure层的Redis实现)
type RevenueCache interface {
	GetRevenue(ctx context.Context) ([]report.RevenueRow, bool, error)
	SetRevenue(ctx context.Context, rows []report.RevenueRow) error
	Invalidate(ctx context.Context) error
}

// MonthlyRevenueResult 月度营收报表结果
type MonthlyRevenueResult struct {
	Strategy   report.FetchStrategy
	QueryCount int64
	FromCache  bool
	Rows       []report.RevenueRow
}

// MonthlyRevenueUseCase 月度营收报表用例
// 该报表是全表聚合,开销最大,batched结果走Redis缓存;
// lazy路径的意义就是暴露真实查询开销,永不缓存
type MonthlyRevenueUseCase struct {
	repo  report.Repository
	cache RevenueCache // 可为nil(缓存关闭)
}

// NewMonthlyRevenueUseCase 创建月度营收报表用例
func NewMonthlyRevenueUseCase(repo report.Repository, cache RevenueCache) *MonthlyRevenueUseCase {
	return &MonthlyRevenueUseCase{repo: repo, cache: cache}
}

// Execute 生成月度营收报表
// 缓存读写失败不阻断请求,退化为直接查库
func (uc *MonthlyRevenueUseCase) Execute(ctx context.Context, strategyParam string) (*MonthlyRevenueResult, error) {
	strategy, err := report.ParseStrategy(strategyParam)
	if err != nil {
		return nil, err
	}

	if strategy == report.StrategyBatched && uc.cache != nil {
		if rows, hit, err := uc.cache.GetRevenue(ctx); err == nil && hit {
			metrics.ObserveReport("monthly_revenue", string(strategy), 0, 0)
			return &MonthlyRevenueResult{
				Strategy:   strategy,
				QueryCount: 0,
				FromCache:  true,
				Rows:       rows,
			}, nil
		}
	}

	start := time.Now()
	rows, queryCount, err := uc.repo.MonthlyRevenue(ctx, strategy)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport("monthly_revenue", string(strategy), queryCount, time.Since(start).Seconds())

	if strategy == report.StrategyBatched && uc.cache != nil {
		_ = uc.cache.SetRevenue(ctx, rows)
	}

	return &MonthlyRevenueResult{
		Strategy:   strategy,
		QueryCount: queryCount,
		Rows:       rows,
	}, nil
}
