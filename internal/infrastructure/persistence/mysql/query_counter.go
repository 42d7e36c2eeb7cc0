package mysql

import (
	"context"
	"sync/atomic"

	"gorm.io/gorm"
)

// 语句计数机制
// 设计说明:
// 1. 报表仓储需要逐次统计"这一次报表执行了多少条SQL",
//    lazy策略的1+k*N与batched策略的常数次数正是本系统要展示的差异
// 2. 计数器通过context传递(与事务传递同一套机制),
//    插件回调从Statement.Context中取出计数器累加;
//    没有挂计数器的查询不受影响,并发请求互不干扰
// 3. 回调注册在六类操作之后,覆盖Find/Scan/Raw/Exec等全部执行路径

// counterKey context键(自定义类型避免冲突)
type counterKey struct{}

// QueryCount SQL语句计数器
type QueryCount struct {
	n atomic.Int64
}

// Load 读取当前计数
func (c *QueryCount) Load() int64 {
	return c.n.Load()
}

// WithQueryCount 在context中挂载计数器
// 返回新context与计数器,之后经由该context执行的所有语句都会被计数
func WithQueryCount(ctx context.Context) (context.Context, *QueryCount) {
	counter := &QueryCount{}
	return context.WithValue(ctx, counterKey{}, counter), counter
}

// QueryCounterPlugin GORM语句计数插件
type QueryCounterPlugin struct{}

// Name 插件名
func (p *QueryCounterPlugin) Name() string {
	return "query_counter"
}

// Initialize 注册计数回调
// Preload产生的额外查询同样走Query回调管线,会被一并计入
func (p *QueryCounterPlugin) Initialize(db *gorm.DB) error {
	count := func(tx *gorm.DB) {
		if tx.Statement == nil || tx.Statement.Context == nil {
			return
		}
		if counter, ok := tx.Statement.Context.Value(counterKey{}).(*QueryCount); ok {
			counter.n.Add(1)
		}
	}

	if err := db.Callback().Query().After("gorm:query").Register("query_counter:query", count); err != nil {
		return err
	}
	if err := db.Callback().Raw().After("gorm:raw").Register("query_counter:raw", count); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("query_counter:row", count); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("query_counter:create", count); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("query_counter:update", count); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("query_counter:delete", count)
}
