package reporting

import (
	"context"
	"time"

	"github.com/xiebiao/querylab/internal/domain/report"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// BooksWithReviewsResult 带评论的图书报表结果
type BooksWithReviewsResult struct {
	Strategy   report.FetchStrategy
	QueryCount int64
	Rows       []report.BookReviewsRow
}

// BooksWithReviewsUseCase 带评论的图书报表用例
type BooksWithReviewsUseCase struct {
	repo report.Repository
}

// NewBooksWithReviewsUseCase 创建带评论的图书报表用例
func NewBooksWithReviewsUseCase(repo report.Repository) *BooksWithReviewsUseCase {
	return &BooksWithReviewsUseCase{repo: repo}
}

// Execute 生成带评论的图书报表
func (uc *BooksWithReviewsUseCase) Execute(ctx context.Context, strategyParam string) (*BooksWithReviewsResult, error) {
	strategy, err := report.ParseStrategy(strategyParam)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryCount, err := uc.repo.BooksWithReviews(ctx, strategy, report.DefaultBookReviewsLimit)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport("books_with_reviews", string(strategy), queryCount, time.Since(start).Seconds())

	return &BooksWithReviewsResult{
		Strategy:   strategy,
		QueryCount: queryCount,
		Rows:       rows,
	}, nil
}
