package reporting

import (
	"context"
	"time"

	"github.com/xiebiao/querylab/internal/domain/report"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// AuthorStatsResult 作者统计报表结果
type AuthorStatsResult struct {
	Strategy   report.FetchStrategy
	QueryCount int64
	Rows       []report.AuthorStatsRow
}

// AuthorStatsUseCase 作者统计报表用例
type AuthorStatsUseCase struct {
	repo report.Repository
}

// NewAuthorStatsUseCase 创建作者统计报表用例
func NewAuthorStatsUseCase(repo report.Repository) *AuthorStatsUseCase {
	return &AuthorStatsUseCase{repo: repo}
}

// Execute 生成作者统计报表
func (uc *AuthorStatsUseCase) Execute(ctx context.Context, strategyParam string) (*AuthorStatsResult, error) {
	strategy, err := report.ParseStrategy(strategyParam)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryCount, err := uc.repo.AuthorStats(ctx, strategy, report.DefaultAuthorStatsLimit)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport("author_stats", string(strategy), queryCount, time.Since(start).Seconds())

	return &AuthorStatsResult{
		Strategy:   strategy,
		QueryCount: queryCount,
		Rows:       rows,
	}, nil
}
