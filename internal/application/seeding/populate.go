// Package seeding 数据填充用例层
package seeding

import (
	"context"
	"math/rand"
	"time"

	"github.com/xiebiao/querylab/internal/seed"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// CacheInvalidator 报表缓存失效接口
// 数据重建后旧缓存必须清除,否则报表读到上一个数据集的结果
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// PopulateRequest 填充请求
// 数量为0时取默认值;Seed为0时用当前时间做随机种子
type PopulateRequest struct {
	Authors int   `json:"authors"`
	Books   int   `json:"books"`
	Orders  int   `json:"orders"`
	Seed    int64 `json:"seed"`
}

// PopulateResult 填充结果(各实体的写入行数)
type PopulateResult struct {
	Users      int `json:"users"`
	Authors    int `json:"authors"`
	Categories int `json:"categories"`
	Publishers int `json:"publishers"`
	Books      int `json:"books"`
	Reviews    int `json:"reviews"`
	Orders     int `json:"orders"`
	OrderItems int `json:"order_items"`
}

// PopulateUseCase 数据填充用例
// 流程:内存生成完整实体图 → 事务内清空重建 → 清除报表缓存
type PopulateUseCase struct {
	repo  seed.Repository
	cache CacheInvalidator // 可为nil
	now   func() time.Time
}

// NewPopulateUseCase 创建数据填充用例
func NewPopulateUseCase(repo seed.Repository, cache CacheInvalidator) *PopulateUseCase {
	return &PopulateUseCase{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// Execute 执行数据填充
func (uc *PopulateUseCase) Execute(ctx context.Context, req PopulateRequest) (*PopulateResult, error) {
	counts := seed.DefaultCounts()
	if req.Authors > 0 {
		counts.Authors = req.Authors
	}
	if req.Books > 0 {
		counts.Books = req.Books
	}
	if req.Orders > 0 {
		counts.Orders = req.Orders
	}

	seedValue := req.Seed
	if seedValue == 0 {
		seedValue = uc.now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	ds, err := seed.Generate(rng, uc.now(), counts)
	if err != nil {
		uc.observe("failure")
		return nil, err
	}

	if err := uc.repo.Replace(ctx, ds); err != nil {
		uc.observe("failure")
		return nil, err
	}

	if uc.cache != nil {
		// 缓存清除失败不回滚数据,靠TTL兜底过期
		_ = uc.cache.Invalidate(ctx)
	}

	uc.observe("success")

	itemCount := 0
	for _, o := range ds.Orders {
		itemCount += len(o.Items)
	}
	return &PopulateResult{
		Users:      len(ds.Users),
		Authors:    len(ds.Authors),
		Categories: len(ds.Categories),
		Publishers: len(ds.Publishers),
		Books:      len(ds.Books),
		Reviews:    len(ds.Reviews),
		Orders:     len(ds.Orders),
		OrderItems: itemCount,
	}, nil
}

func (uc *PopulateUseCase) observe(result string) {
	if metrics.SeedRunsTotal != nil {
		metrics.SeedRunsTotal.WithLabelValues(result).Inc()
	}
}
