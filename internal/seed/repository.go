package seed

import "context"

// Repository 数据集落库接口,由infrastructure层实现
type Repository interface {
	// Replace 清空现有数据后整体写入新数据集(事务内完成)
	Replace(ctx context.Context, ds *Dataset) error
}
