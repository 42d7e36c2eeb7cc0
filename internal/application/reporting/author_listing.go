package reporting

import (
	"context"
	"time"

	"github.com/xiebiao/querylab/internal/domain/report"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// AuthorListingResult 作者列表报表结果
type AuthorListingResult struct {
	Strategy   report.FetchStrategy
	QueryCount int64
	Rows       []report.AuthorRow
}

// AuthorListingUseCase 作者列表报表用例
type AuthorListingUseCase struct {
	repo report.Repository
}

// NewAuthorListingUseCase 创建作者列表报表用例
func NewAuthorListingUseCase(repo report.Repository) *AuthorListingUseCase {
	return &AuthorListingUseCase{repo: repo}
}

// Execute 生成作者列表报表
func (uc *AuthorListingUseCase) Execute(ctx context.Context, strategyParam string) (*AuthorListingResult, error) {
	strategy, err := report.ParseStrategy(strategyParam)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryCount, err := uc.repo.AuthorListing(ctx, strategy, report.DefaultAuthorLimit)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport("authors", string(strategy), queryCount, time.Since(start).Seconds())

	return &AuthorListingResult{
		Strategy:   strategy,
		QueryCount: queryCount,
		Rows:       rows,
	}, nil
}
