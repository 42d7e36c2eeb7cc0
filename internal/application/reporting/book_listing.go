// Package reporting 报表用例层
//
// 设计说明:
// 1. 用例负责策略参数解析、仓储调用与指标上报,
//    不包含SQL细节(在infrastructure层)也不包含HTTP细节(在interface层)
// 2. 每个用例的结果都附带本次执行的SQL语句数,
//    两种策略的开销差异由调用方直接可见
package reporting

import (
	"context"
	"time"

	"github.com/xiebiao/querylab/internal/domain/report"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// BookListingResult 图书列表报表结果
type BookListingResult struct {
	Strategy   report.FetchStrategy
	QueryCount int64
	Rows       []report.BookRow
}

// BookListingUseCase 图书列表报表用例
type BookListingUseCase struct {
	repo report.Repository
}

// NewBookListingUseCase 创建图书列表报表用例
func NewBookListingUseCase(repo report.Repository) *BookListingUseCase {
	return &BookListingUseCase{repo: repo}
}

// Execute 生成图书列表报表
// strategyParam为空时默认batched
func (uc *BookListingUseCase) Execute(ctx context.Context, strategyParam string) (*BookListingResult, error) {
	strategy, err := report.ParseStrategy(strategyParam)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryCount, err := uc.repo.BookListing(ctx, strategy, report.DefaultBookLimit)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport("books", string(strategy), queryCount, time.Since(start).Seconds())

	return &BookListingResult{
		Strategy:   strategy,
		QueryCount: queryCount,
		Rows:       rows,
	}, nil
}
