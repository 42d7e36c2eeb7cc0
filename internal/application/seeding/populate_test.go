package seeding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/querylab/internal/seed"
)

// fakeSeedRepo 记录最近一次落库的数据集
type fakeSeedRepo struct {
	lastDataset *seed.Dataset
	calls       int
}

func (f *fakeSeedRepo) Replace(ctx context.Context, ds *seed.Dataset) error {
	f.lastDataset = ds
	f.calls++
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return nil
}

func TestPopulateDefaults(t *testing.T) {
	repo := &fakeSeedRepo{}
	uc := NewPopulateUseCase(repo, nil)

	result, err := uc.Execute(context.Background(), PopulateRequest{Seed: 42})
	require.NoError(t, err)

	// 数量为0时取默认规模
	defaults := seed.DefaultCounts()
	assert.Equal(t, defaults.Authors, result.Authors)
	assert.Equal(t, defaults.Authors, result.Users)
	assert.Equal(t, defaults.Books, result.Books)
	assert.Equal(t, defaults.Orders, result.Orders)
	assert.Equal(t, 1, repo.calls)
	require.NotNil(t, repo.lastDataset)
	assert.Len(t, repo.lastDataset.Books, defaults.Books)
}

func TestPopulateCustomCounts(t *testing.T) {
	repo := &fakeSeedRepo{}
	uc := NewPopulateUseCase(repo, nil)

	result, err := uc.Execute(context.Background(), PopulateRequest{
		Authors: 3, Books: 7, Orders: 11, Seed: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Authors)
	assert.Equal(t, 7, result.Books)
	assert.Equal(t, 11, result.Orders)

	// 明细数与数据集一致
	itemCount := 0
	for _, o := range repo.lastDataset.Orders {
		itemCount += len(o.Items)
	}
	assert.Equal(t, itemCount, result.OrderItems)
}

func TestPopulateInvalidatesCache(t *testing.T) {
	repo := &fakeSeedRepo{}
	cache := &fakeInvalidator{}
	uc := NewPopulateUseCase(repo, cache)

	_, err := uc.Execute(context.Background(), PopulateRequest{Seed: 9})
	require.NoError(t, err)

	// 数据重建后旧的报表缓存必须清除
	assert.Equal(t, 1, cache.calls)
}

func TestPopulateReproducible(t *testing.T) {
	repo := &fakeSeedRepo{}
	uc := NewPopulateUseCase(repo, nil)
	// 固定时钟,排除生成时间差异
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	_, err := uc.Execute(context.Background(), PopulateRequest{Authors: 4, Books: 10, Orders: 5, Seed: 77})
	require.NoError(t, err)
	first := repo.lastDataset

	_, err = uc.Execute(context.Background(), PopulateRequest{Authors: 4, Books: 10, Orders: 5, Seed: 77})
	require.NoError(t, err)
	second := repo.lastDataset

	// 相同种子可复现相同的实体图
	assert.Equal(t, first.Books, second.Books)
	assert.Equal(t, first.Orders, second.Orders)
}
