package report

import (
	"context"
	"time"
)

// FetchStrategy 关联数据的访问策略
// 设计说明:
// 1. lazy: 逐行懒加载——先查基础实体,再对每一行逐个查询其关联
//    (1 + k*N次查询,N为行数,k为关联数),作为故意保留的低效基线
// 2. batched: 批量加载——单值关联JOIN随主查询取回,多值关联每类
//    一次IN查询批量取回,聚合下推到数据库,查询次数与行数无关
// 两种策略必须产出相同的逻辑结果(行内顺序、舍入误差除外)
type FetchStrategy string

const (
	StrategyLazy    FetchStrategy = "lazy"
	StrategyBatched FetchStrategy = "batched"
)

// ParseStrategy 解析策略参数,空值默认batched
func ParseStrategy(s string) (FetchStrategy, error) {
	switch s {
	case "", string(StrategyBatched):
		return StrategyBatched, nil
	case string(StrategyLazy):
		return StrategyLazy, nil
	}
	return "", ErrInvalidStrategy
}

// 各报表的默认行数上限
const (
	DefaultBookLimit        = 50
	DefaultAuthorLimit      = 50
	DefaultBookReviewsLimit = 30
	DefaultAuthorStatsLimit = 30
)

// MonthLayout 报表月份键格式(YYYY-MM)
const MonthLayout = "2006-01"

// =========================================
// 报表行结构
// =========================================

// AuthorRef 作者引用(嵌入行内的精简视图)
type AuthorRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PublisherRef 出版社引用
type PublisherRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryRef 分类引用
type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserRef 用户引用
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// BookRef 图书引用(作者行内的精简视图)
type BookRef struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	PublishedDate time.Time `json:"published_date"`
}

// BookRow 图书列表行
// Publisher可空:没有出版社的图书正常出现,publisher输出null
type BookRow struct {
	ID            uint          `json:"id"`
	Title         string        `json:"title"`
	Author        AuthorRef     `json:"author"`
	Publisher     *PublisherRef `json:"publisher"`
	Categories    []CategoryRef `json:"categories"`
	Price         int64         `json:"price"` // 分
	Pages         int           `json:"pages"`
	PublishedDate time.Time     `json:"published_date"`
}

// AuthorRow 作者列表行
type AuthorRow struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	LinkedUser *UserRef  `json:"linked_user"`
	BookCount  int64     `json:"book_count"`
	Books      []BookRef `json:"books"`
}

// ReviewRow 评论行(含评论者)
type ReviewRow struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Reviewer  UserRef   `json:"reviewer"`
	CreatedAt time.Time `json:"created_at"`
}

// BookReviewsRow 带评论的图书行
// Book中Categories不填充(该报表不展示分类)
type BookReviewsRow struct {
	Book    BookRow     `json:"book"`
	Reviews []ReviewRow `json:"reviews"`
}

// AuthorStatsRow 作者统计行
// AvgRating为nil表示该作者名下图书没有任何评论(不是0分),
// 零图书作者BookCount=0且正常出现
type AuthorStatsRow struct {
	Author    AuthorRef `json:"author"`
	BookCount int64     `json:"book_count"`
	AvgRating *float64  `json:"avg_rating"`
}

// RevenueRow 月度营收报表行
// 仅统计completed订单;Month为YYYY-MM;金额单位为分
type RevenueRow struct {
	Customer       UserRef `json:"customer"`
	Month          string  `json:"month"`
	TotalRevenue   int64   `json:"total_revenue"`
	TotalOrders    int64   `json:"total_orders"`
	AvgCheck       float64 `json:"avg_check"`
	IsReturning    bool    `json:"is_returning"`
	ReturningRatio float64 `json:"returning_ratio"`
}

// =========================================
// 仓储接口
// =========================================

// Repository 报表仓储接口
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(依赖倒置)
// 2. 每个方法同时支持lazy/batched两种策略,返回本次执行的SQL语句数,
//    调用方(应用层/测试)可以据此对比两种策略的查询开销
// 3. 全部为只读查询,无副作用
type Repository interface {
	// BookListing 图书列表(作者、出版社、分类)
	// 排序:published_date DESC
	BookListing(ctx context.Context, strategy FetchStrategy, limit int) ([]BookRow, int64, error)

	// AuthorListing 作者列表(关联用户、名下图书、图书数)
	// 排序:name ASC
	AuthorListing(ctx context.Context, strategy FetchStrategy, limit int) ([]AuthorRow, int64, error)

	// BooksWithReviews 带评论的图书列表(评论含评论者)
	// 图书按published_date DESC,评论按created_at DESC
	BooksWithReviews(ctx context.Context, strategy FetchStrategy, limit int) ([]BookReviewsRow, int64, error)

	// AuthorStats 作者统计(图书数、平均评分)
	// 排序:name ASC;batched策略必须由单条分组聚合SQL完成,
	// 不允许逐作者发起聚合查询
	AuthorStats(ctx context.Context, strategy FetchStrategy, limit int) ([]AuthorStatsRow, int64, error)

	// MonthlyRevenue 月度营收报表
	// 行按(month ASC, customer.username ASC)排序;
	// 没有completed订单的月份不产生行
	MonthlyRevenue(ctx context.Context, strategy FetchStrategy) ([]RevenueRow, int64, error)
}

// =========================================
// 纯计算辅助(两种策略共用,统一除零语义)
// =========================================

// AvgCheck 平均客单价(分)
// 订单数为0时返回0,不报错
func AvgCheck(totalRevenue, totalOrders int64) float64 {
	if totalOrders == 0 {
		return 0
	}
	return float64(totalRevenue) / float64(totalOrders)
}

// ReturningRatio 回头客占比(百分比)
// 公式:100 * 当月下单超过1次的客户数 / 当月客户总数
// 客户总数为0时返回0,不报错
func ReturningRatio(returning, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(returning) / float64(total) * 100
}
