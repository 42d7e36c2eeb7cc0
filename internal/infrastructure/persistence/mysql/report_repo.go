package mysql

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/xiebiao/querylab/internal/domain/report"
	apperrors "github.com/xiebiao/querylab/pkg/errors"
)

// reportRepository 报表仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/report定义的接口,每个报表同时提供lazy/batched两条路径
//    (分别在report_lazy.go与report_batched.go中),两条路径必须产出
//    相同的逻辑结果
// 2. 每次调用通过context挂载语句计数器,返回本次执行的SQL条数,
//    供应用层写入响应与指标
// 3. 全部为只读查询,不开事务
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

// BookListing 图书列表(作者、出版社、分类)
func (r *reportRepository) BookListing(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.BookRow, int64, error) {
	if limit <= 0 {
		return nil, 0, report.ErrInvalidLimit
	}

	ctx, counter := WithQueryCount(ctx)
	db := r.db.WithContext(ctx)

	var (
		rows []report.BookRow
		err  error
	)
	switch strategy {
	case report.StrategyLazy:
		rows, err = r.bookListingLazy(db, limit)
	case report.StrategyBatched:
		rows, err = r.bookListingBatched(db, limit)
	default:
		return nil, 0, report.ErrInvalidStrategy
	}

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}
	return rows, counter.Load(), nil
}

// AuthorListing 作者列表(关联用户、名下图书)
func (r *reportRepository) AuthorListing(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.AuthorRow, int64, error) {
	if limit <= 0 {
		return nil, 0, report.ErrInvalidLimit
	}

	ctx, counter := WithQueryCount(ctx)
	db := r.db.WithContext(ctx)

	var (
		rows []report.AuthorRow
		err  error
	)
	switch strategy {
	case report.StrategyLazy:
		rows, err = r.authorListingLazy(db, limit)
	case report.StrategyBatched:
		rows, err = r.authorListingBatched(db, limit)
	default:
		return nil, 0, report.ErrInvalidStrategy
	}

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者列表失败")
	}
	return rows, counter.Load(), nil
}

// BooksWithReviews 带评论的图书列表
func (r *reportRepository) BooksWithReviews(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.BookReviewsRow, int64, error) {
	if limit <= 0 {
		return nil, 0, report.ErrInvalidLimit
	}

	ctx, counter := WithQueryCount(ctx)
	db := r.db.WithContext(ctx)

	var (
		rows []report.BookReviewsRow
		err  error
	)
	switch strategy {
	case report.StrategyLazy:
		rows, err = r.booksWithReviewsLazy(db, limit)
	case report.StrategyBatched:
		rows, err = r.booksWithReviewsBatched(db, limit)
	default:
		return nil, 0, report.ErrInvalidStrategy
	}

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书评论列表失败")
	}
	return rows, counter.Load(), nil
}

// AuthorStats 作者统计(图书数、平均评分)
func (r *reportRepository) AuthorStats(ctx context.Context, strategy report.FetchStrategy, limit int) ([]report.AuthorStatsRow, int64, error) {
	if limit <= 0 {
		return nil, 0, report.ErrInvalidLimit
	}

	ctx, counter := WithQueryCount(ctx)
	db := r.db.WithContext(ctx)

	var (
		rows []report.AuthorStatsRow
		err  error
	)
	switch strategy {
	case report.StrategyLazy:
		rows, err = r.authorStatsLazy(db, limit)
	case report.StrategyBatched:
		rows, err = r.authorStatsBatched(db, limit)
	default:
		return nil, 0, report.ErrInvalidStrategy
	}

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者统计失败")
	}
	return rows, counter.Load(), nil
}

// MonthlyRevenue 月度营收报表
func (r *reportRepository) MonthlyRevenue(ctx context.Context, strategy report.FetchStrategy) ([]report.RevenueRow, int64, error) {
	ctx, counter := WithQueryCount(ctx)
	db := r.db.WithContext(ctx)

	var (
		rows []report.RevenueRow
		err  error
	)
	switch strategy {
	case report.StrategyLazy:
		rows, err = r.monthlyRevenueLazy(db)
	case report.StrategyBatched:
		rows, err = r.monthlyRevenueBatched(db)
	default:
		return nil, 0, report.ErrInvalidStrategy
	}

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询月度营收报表失败")
	}
	return rows, counter.Load(), nil
}

// =========================================
// 辅助函数:模型 → 报表行(两条路径共用)
// =========================================

// toAuthorRef 作者模型 → 作者引用
func toAuthorRef(a AuthorModel) report.AuthorRef {
	return report.AuthorRef{ID: a.ID, Name: a.Name}
}

// toPublisherRef 出版社模型 → 出版社引用(可空)
func toPublisherRef(p *PublisherModel) *report.PublisherRef {
	if p == nil {
		return nil
	}
	return &report.PublisherRef{ID: p.ID, Name: p.Name}
}

// toUserRef 用户模型 → 用户引用
func toUserRef(u UserModel) report.UserRef {
	return report.UserRef{ID: u.ID, Username: u.Username}
}

// toCategoryRefs 分类模型列表 → 分类引用列表
func toCategoryRefs(cats []CategoryModel) []report.CategoryRef {
	refs := make([]report.CategoryRef, len(cats))
	for i, c := range cats {
		refs[i] = report.CategoryRef{ID: c.ID, Name: c.Name}
	}
	return refs
}

// toBookRow 图书模型 → 图书列表行
// 要求模型的Author/Publisher/Categories已按需装配完毕
func toBookRow(b BookModel) report.BookRow {
	return report.BookRow{
		ID:            b.ID,
		Title:         b.Title,
		Author:        toAuthorRef(b.Author),
		Publisher:     toPublisherRef(b.Publisher),
		Categories:    toCategoryRefs(b.Categories),
		Price:         b.Price,
		Pages:         b.Pages,
		PublishedDate: b.PublishedDate,
	}
}

// toBookRefs 图书模型列表 → 图书引用列表
func toBookRefs(books []BookModel) []report.BookRef {
	refs := make([]report.BookRef, len(books))
	for i, b := range books {
		refs[i] = report.BookRef{ID: b.ID, Title: b.Title, PublishedDate: b.PublishedDate}
	}
	return refs
}

// sortRevenueRows 营收报表行排序:(month ASC, customer.username ASC)
// 两条路径共用,保证输出顺序一致
func sortRevenueRows(rows []report.RevenueRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].Customer.Username < rows[j].Customer.Username
	})
}
