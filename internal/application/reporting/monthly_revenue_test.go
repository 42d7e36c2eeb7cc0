package reporting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/querylab/internal/domain/report"
)

// fakeRepository 固定返回预设行与查询次数
type fakeRepository struct {
	revenueRows  []report.RevenueRow
	bookRows     []report.BookRow
	queryCount   int64
	revenueCalls int
}

func (f *fakeRepository) BookListing(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.BookRow, int64, error) {
	return f.bookRows, f.queryCount, nil
}

func (f *fakeRepository) AuthorListing(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.AuthorRow, int64, error) {
	return nil, f.queryCount, nil
}

func (f *fakeRepository) BooksWithReviews(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.BookReviewsRow, int64, error) {
	return nil, f.queryCount, nil
}

func (f *fakeRepository) AuthorStats(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.AuthorStatsRow, int64, error) {
	return nil, f.queryCount, nil
}

func (f *fakeRepository) MonthlyRevenue(ctx context.Context, strategy report.FetchStrategy) ([]report.RevenueRow, int64, error) {
	f.revenueCalls++
	return f.revenueRows, f.queryCount, nil
}

// fakeCache 内存缓存实现
type fakeCache struct {
	rows        []report.RevenueRow
	hit         bool
	setCalls    int
	invalidated int
}

func (f *fakeCache) GetRevenue(ctx context.Context) ([]report.RevenueRow, bool, error) {
	return f.rows, f.hit, nil
}

func (f *fakeCache) SetRevenue(ctx context.Context, rows []report.RevenueRow) error {
	f.rows = rows
	f.hit = true
	f.setCalls++
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.rows = nil
	f.hit = false
	f.invalidated++
	return nil
}

func sampleRevenueRows() []report.RevenueRow {
	return []report.RevenueRow{
		{
			Customer:     report.UserRef{ID: 1, Username: "jane"},
			Month:        "2024-03",
			TotalRevenue: 8000,
			TotalOrders:  2,
			AvgCheck:     4000,
			IsReturning:  true,
		},
	}
}

func TestMonthlyRevenueCacheMissThenHit(t *testing.T) {
	repo := &fakeRepository{revenueRows: sampleRevenueRows(), queryCount: 3}
	cache := &fakeCache{}
	uc := NewMonthlyRevenueUseCase(repo, cache)

	// 第一次:未命中,查库并回填缓存
	result, err := uc.Execute(context.Background(), "batched")
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, int64(3), result.QueryCount)
	assert.Equal(t, 1, repo.revenueCalls)
	assert.Equal(t, 1, cache.setCalls)

	// 第二次:命中缓存,不再查库
	result, err = uc.Execute(context.Background(), "batched")
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Zero(t, result.QueryCount)
	assert.Equal(t, 1, repo.revenueCalls)
	assert.Equal(t, sampleRevenueRows(), result.Rows)
}

func TestMonthlyRevenueLazyBypassesCache(t *testing.T) {
	repo := &fakeRepository{revenueRows: sampleRevenueRows(), queryCount: 42}
	cache := &fakeCache{rows: sampleRevenueRows(), hit: true}
	uc := NewMonthlyRevenueUseCase(repo, cache)

	// lazy路径的意义是暴露真实查询开销,即使有缓存也直接查库
	result, err := uc.Execute(context.Background(), "lazy")
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, int64(42), result.QueryCount)
	assert.Equal(t, 1, repo.revenueCalls)
	assert.Zero(t, cache.setCalls)
}

func TestMonthlyRevenueNilCache(t *testing.T) {
	repo := &fakeRepository{revenueRows: sampleRevenueRows(), queryCount: 3}
	uc := NewMonthlyRevenueUseCase(repo, nil)

	result, err := uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, report.StrategyBatched, result.Strategy)
	assert.False(t, result.FromCache)
}

func TestMonthlyRevenueInvalidStrategy(t *testing.T) {
	uc := NewMonthlyRevenueUseCase(&fakeRepository{}, nil)
	_, err := uc.Execute(context.Background(), "eager")
	assert.ErrorIs(t, err, report.ErrInvalidStrategy)
}

func TestBookListingDefaultStrategy(t *testing.T) {
	repo := &fakeRepository{
		bookRows:   []report.BookRow{{ID: 1, Title: "Go"}},
		queryCount: 2,
	}
	uc := NewBookListingUseCase(repo)

	result, err := uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, report.StrategyBatched, result.Strategy)
	assert.Equal(t, int64(2), result.QueryCount)
	assert.Len(t, result.Rows, 1)
}
