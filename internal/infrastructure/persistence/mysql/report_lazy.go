package mysql

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/xiebiao/querylab/internal/domain/order"
	"github.com/xiebiao/querylab/internal/domain/report"
)

// lazy(逐行懒加载)路径
// 作为故意保留的低效基线:先取基础实体,再对每一行逐个补齐关联,
// 查询次数为1+k*N(N为行数,k为每行关联数)。
// 结果必须与report_batched.go中的同名报表完全一致。

// bookListingLazy 图书列表
// 查询构成:1次图书 + 每本书(1次作者 + 0/1次出版社 + 1次分类)
func (r *reportRepository) bookListingLazy(db *gorm.DB, limit int) ([]report.BookRow, error) {
	var books []BookModel
	if err := db.Order("published_date DESC, id ASC").Limit(limit).Find(&books).Error; err != nil {
		return nil, err
	}

	rows := make([]report.BookRow, 0, len(books))
	for i := range books {
		b := books[i]

		// 逐行补齐作者
		if err := db.First(&b.Author, b.AuthorID).Error; err != nil {
			return nil, err
		}

		// 逐行补齐出版社(可空,没有出版社不算错误)
		if b.PublisherID != nil {
			var p PublisherModel
			if err := db.First(&p, *b.PublisherID).Error; err != nil {
				return nil, err
			}
			b.Publisher = &p
		}

		// 逐行补齐分类(多对多)
		if err := db.Order("categories.id ASC").Model(&b).Association("Categories").Find(&b.Categories); err != nil {
			return nil, err
		}

		rows = append(rows, toBookRow(b))
	}
	return rows, nil
}

// authorListingLazy 作者列表
// 查询构成:1次作者 + 每位作者(0/1次用户 + 1次图书)
func (r *reportRepository) authorListingLazy(db *gorm.DB, limit int) ([]report.AuthorRow, error) {
	var authors []AuthorModel
	if err := db.Order("name ASC, id ASC").Limit(limit).Find(&authors).Error; err != nil {
		return nil, err
	}

	rows := make([]report.AuthorRow, 0, len(authors))
	for _, a := range authors {
		row := report.AuthorRow{
			ID:    a.ID,
			Name:  a.Name,
			Email: a.Email,
		}

		// 逐行补齐关联用户(可空)
		if a.UserID != nil {
			var u UserModel
			if err := db.First(&u, *a.UserID).Error; err != nil {
				return nil, err
			}
			ref := toUserRef(u)
			row.LinkedUser = &ref
		}

		// 逐行补齐名下图书
		var books []BookModel
		if err := db.Where("author_id = ?", a.ID).Order("published_date DESC, id ASC").Find(&books).Error; err != nil {
			return nil, err
		}
		row.Books = toBookRefs(books)
		row.BookCount = int64(len(books))

		rows = append(rows, row)
	}
	return rows, nil
}

// booksWithReviewsLazy 带评论的图书列表
// 查询构成:1次图书 + 每本书(1次作者 + 1次评论 + 每条评论1次评论者)
func (r *reportRepository) booksWithReviewsLazy(db *gorm.DB, limit int) ([]report.BookReviewsRow, error) {
	var books []BookModel
	if err := db.Order("published_date DESC, id ASC").Limit(limit).Find(&books).Error; err != nil {
		return nil, err
	}

	rows := make([]report.BookReviewsRow, 0, len(books))
	for i := range books {
		b := books[i]

		if err := db.First(&b.Author, b.AuthorID).Error; err != nil {
			return nil, err
		}

		var reviews []ReviewModel
		if err := db.Where("book_id = ?", b.ID).Order("created_at DESC, id ASC").Find(&reviews).Error; err != nil {
			return nil, err
		}

		reviewRows := make([]report.ReviewRow, 0, len(reviews))
		for _, rv := range reviews {
			// 逐条评论补齐评论者
			var reviewer UserModel
			if err := db.First(&reviewer, rv.ReviewerID).Error; err != nil {
				return nil, err
			}
			reviewRows = append(reviewRows, report.ReviewRow{
				Rating:    rv.Rating,
				Comment:   rv.Comment,
				Reviewer:  toUserRef(reviewer),
				CreatedAt: rv.CreatedAt,
			})
		}

		rows = append(rows, report.BookReviewsRow{
			Book:    toBookRow(b),
			Reviews: reviewRows,
		})
	}
	return rows, nil
}

// authorStatsLazy 作者统计
// 查询构成:1次作者 + 每位作者(1次计数 + 1次平均评分聚合)
func (r *reportRepository) authorStatsLazy(db *gorm.DB, limit int) ([]report.AuthorStatsRow, error) {
	var authors []AuthorModel
	if err := db.Order("name ASC, id ASC").Limit(limit).Find(&authors).Error; err != nil {
		return nil, err
	}

	rows := make([]report.AuthorStatsRow, 0, len(authors))
	for _, a := range authors {
		var bookCount int64
		if err := db.Model(&BookModel{}).Where("author_id = ?", a.ID).Count(&bookCount).Error; err != nil {
			return nil, err
		}

		// 逐作者发起聚合查询(低效示范);没有评论时AVG为NULL
		var avg sql.NullFloat64
		err := db.Model(&ReviewModel{}).
			Select("AVG(reviews.rating)").
			Joins("JOIN books ON books.id = reviews.book_id").
			Where("books.author_id = ?", a.ID).
			Scan(&avg).Error
		if err != nil {
			return nil, err
		}

		row := report.AuthorStatsRow{
			Author:    toAuthorRef(a),
			BookCount: bookCount,
		}
		if avg.Valid {
			row.AvgRating = &avg.Float64
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// monthlyRevenueLazy 月度营收报表
// 查询构成:1次订单 + 每单1次明细 + 每位客户1次用户查询;
// 合计、平均、回头客占比全部在应用侧用嵌套map两遍算出
func (r *reportRepository) monthlyRevenueLazy(db *gorm.DB) ([]report.RevenueRow, error) {
	var orders []OrderModel
	if err := db.Where("status = ?", string(order.StatusCompleted)).Order("order_date ASC").Find(&orders).Error; err != nil {
		return nil, err
	}

	// 客户 → 月份 → 累计
	type bucket struct {
		revenue int64
		orders  int64
	}
	perCustomer := make(map[uint]map[string]*bucket)

	for _, o := range orders {
		// 金额以明细实时求和为准,不信任冗余的total_amount
		var items []OrderItemModel
		if err := db.Where("order_id = ?", o.ID).Find(&items).Error; err != nil {
			return nil, err
		}
		var total int64
		for _, it := range items {
			total += int64(it.Quantity) * it.Price
		}

		month := o.OrderDate.Format(report.MonthLayout)
		if perCustomer[o.CustomerID] == nil {
			perCustomer[o.CustomerID] = make(map[string]*bucket)
		}
		b := perCustomer[o.CustomerID][month]
		if b == nil {
			b = &bucket{}
			perCustomer[o.CustomerID][month] = b
		}
		b.revenue += total
		b.orders++
	}

	// 组装行:每位客户一次用户查询
	rows := make([]report.RevenueRow, 0, len(perCustomer))
	for customerID, months := range perCustomer {
		var u UserModel
		if err := db.First(&u, customerID).Error; err != nil {
			return nil, err
		}
		for month, b := range months {
			rows = append(rows, report.RevenueRow{
				Customer:     toUserRef(u),
				Month:        month,
				TotalRevenue: b.revenue,
				TotalOrders:  b.orders,
				AvgCheck:     report.AvgCheck(b.revenue, b.orders),
				IsReturning:  b.orders > 1,
			})
		}
	}

	// 第二遍:按月统计回头客占比
	type ratioAcc struct {
		returning int
		total     int
	}
	ratios := make(map[string]*ratioAcc)
	for _, row := range rows {
		acc := ratios[row.Month]
		if acc == nil {
			acc = &ratioAcc{}
			ratios[row.Month] = acc
		}
		acc.total++
		if row.IsReturning {
			acc.returning++
		}
	}
	for i := range rows {
		acc := ratios[rows[i].Month]
		rows[i].ReturningRatio = report.ReturningRatio(acc.returning, acc.total)
	}

	sortRevenueRows(rows)
	return rows, nil
}
