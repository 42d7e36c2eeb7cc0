package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/querylab/internal/domain/report"
	apperrors "github.com/xiebiao/querylab/pkg/errors"
)

// 月度营收报表缓存键
// 只缓存batched结果:lazy路径的意义就是展示真实查询开销,缓存会掩盖它
const revenueCacheKey = "querylab:report:monthly_revenue"

// ReportCache 报表结果缓存
// 设计说明:
// 1. 值为JSON序列化的完整行集,整体读整体写,不做行级缓存
// 2. TTL为0时缓存完全关闭,Get/Set退化为空操作
// 3. 数据重新填充后必须调用Invalidate,否则读到旧数据集的报表
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache 创建报表缓存
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// GetRevenue 读取缓存的月度营收报表
// 第二个返回值表示是否命中;缓存未命中不算错误
func (c *ReportCache) GetRevenue(ctx context.Context) ([]report.RevenueRow, bool, error) {
	if c.ttl <= 0 {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, revenueCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(err, "读取报表缓存失败")
	}

	var rows []report.RevenueRow
	if err := json.Unmarshal(data, &rows); err != nil {
		// 缓存内容损坏按未命中处理,下一次Set会覆盖
		return nil, false, nil
	}
	return rows, true, nil
}

// SetRevenue 写入月度营收报表缓存
func (c *ReportCache) SetRevenue(ctx context.Context, rows []report.RevenueRow) error {
	if c.ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return apperrors.Wrap(err, "序列化报表缓存失败")
	}
	if err := c.client.Set(ctx, revenueCacheKey, data, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入报表缓存失败")
	}
	return nil
}

// Invalidate 清除报表缓存(数据重新填充后调用)
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, revenueCacheKey).Err(); err != nil {
		return apperrors.Wrap(err, "清除报表缓存失败")
	}
	return nil
}
