package mysql

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/xiebiao/querylab/internal/domain/order"
	"github.com/xiebiao/querylab/internal/domain/report"
)

// batched(批量加载)路径
// 查询次数与行数无关:
//   - 单值关联(作者、出版社、评论者、关联用户)随主查询LEFT JOIN取回
//   - 多值关联(分类、评论、名下图书)每类一次IN查询批量取回(Preload)
//   - 计数/均值等聚合下推到数据库,由单条分组SQL完成
// 结果必须与report_lazy.go中的同名报表完全一致。

// bookListingBatched 图书列表
// 查询构成:1次(图书 JOIN 作者 JOIN 出版社) + 分类批量加载
// (多对多Preload是中间表、分类表各1次),共3次,与行数无关
func (r *reportRepository) bookListingBatched(db *gorm.DB, limit int) ([]report.BookRow, error) {
	var books []BookModel
	err := db.
		Joins("Author").
		Joins("Publisher").
		Preload("Categories", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("categories.id ASC")
		}).
		Order("books.published_date DESC, books.id ASC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.BookRow, len(books))
	for i, b := range books {
		rows[i] = toBookRow(b)
	}
	return rows, nil
}

// authorListingBatched 作者列表
// 查询构成:1次(作者 JOIN 用户) + 1次图书批量加载,共2次;
// 图书数直接取批量加载结果的长度,不再单独COUNT
func (r *reportRepository) authorListingBatched(db *gorm.DB, limit int) ([]report.AuthorRow, error) {
	var authors []AuthorModel
	err := db.
		Joins("User").
		Preload("Books", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("books.published_date DESC, books.id ASC")
		}).
		Order("authors.name ASC, authors.id ASC").
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.AuthorRow, len(authors))
	for i, a := range authors {
		row := report.AuthorRow{
			ID:        a.ID,
			Name:      a.Name,
			Email:     a.Email,
			BookCount: int64(len(a.Books)),
			Books:     toBookRefs(a.Books),
		}
		if a.User != nil {
			ref := toUserRef(*a.User)
			row.LinkedUser = &ref
		}
		rows[i] = row
	}
	return rows, nil
}

// booksWithReviewsBatched 带评论的图书列表
// 查询构成:1次(图书 JOIN 作者) + 1次评论批量加载,共2次;
// 评论的批量查询自带评论者JOIN,评论者随评论一趟取回,
// 不会退化成按行加载
func (r *reportRepository) booksWithReviewsBatched(db *gorm.DB, limit int) ([]report.BookReviewsRow, error) {
	var books []BookModel
	err := db.
		Joins("Author").
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB {
			return tx.Joins("Reviewer").Order("reviews.created_at DESC, reviews.id ASC")
		}).
		Order("books.published_date DESC, books.id ASC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.BookReviewsRow, len(books))
	for i, b := range books {
		reviewRows := make([]report.ReviewRow, len(b.Reviews))
		for j, rv := range b.Reviews {
			reviewRows[j] = report.ReviewRow{
				Rating:    rv.Rating,
				Comment:   rv.Comment,
				Reviewer:  toUserRef(rv.Reviewer),
				CreatedAt: rv.CreatedAt,
			}
		}
		rows[i] = report.BookReviewsRow{
			Book:    toBookRow(b),
			Reviews: reviewRows,
		}
	}
	return rows, nil
}

// authorStatsBatched 作者统计
// 查询构成:单条分组聚合SQL
// 注意:评论JOIN会放大图书行,图书数必须COUNT(DISTINCT);
// 没有任何评论时AVG为NULL(不是0分),零图书作者照常出现
func (r *reportRepository) authorStatsBatched(db *gorm.DB, limit int) ([]report.AuthorStatsRow, error) {
	type statsScan struct {
		ID        uint
		Name      string
		BookCount int64
		AvgRating sql.NullFloat64
	}

	var scans []statsScan
	err := db.Model(&AuthorModel{}).
		Select("authors.id, authors.name, COUNT(DISTINCT books.id) AS book_count, AVG(reviews.rating) AS avg_rating").
		Joins("LEFT JOIN books ON books.author_id = authors.id").
		Joins("LEFT JOIN reviews ON reviews.book_id = books.id").
		Group("authors.id, authors.name").
		Order("authors.name ASC, authors.id ASC").
		Limit(limit).
		Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.AuthorStatsRow, len(scans))
	for i, s := range scans {
		row := report.AuthorStatsRow{
			Author:    report.AuthorRef{ID: s.ID, Name: s.Name},
			BookCount: s.BookCount,
		}
		if s.AvgRating.Valid {
			v := s.AvgRating.Float64
			row.AvgRating = &v
		}
		rows[i] = row
	}
	return rows, nil
}

// monthlyRevenueBatched 月度营收报表
// 查询构成(共3次,与订单数无关):
//  1. 订单级小计子查询(SUM(quantity*price) GROUP BY order_id)
//     JOIN回orders后按(customer, month)分组,合计/单数/均值/回头客标记
//     全部由数据库一趟算出
//  2. 按(month, customer)分组的订单数派生表再按month汇总,
//     得到每月回头客与客户总数(单条分组SQL,不逐月循环)
//  3. 客户信息按ID集合一次IN查询批量取回
func (r *reportRepository) monthlyRevenueBatched(db *gorm.DB) ([]report.RevenueRow, error) {
	completed := string(order.StatusCompleted)

	// 1. 分组聚合主查询
	orderTotals := db.Session(&gorm.Session{NewDB: true}).
		Model(&OrderItemModel{}).
		Select("order_id, SUM(quantity * price) AS order_total").
		Group("order_id")

	type revenueScan struct {
		CustomerID   uint
		Month        string
		TotalRevenue int64
		TotalOrders  int64
		AvgCheck     float64
		IsReturning  int
	}
	var scans []revenueScan
	err := db.Model(&OrderModel{}).
		Select("orders.customer_id, DATE_FORMAT(orders.order_date, '%Y-%m') AS month, " +
			"SUM(t.order_total) AS total_revenue, " +
			"COUNT(orders.id) AS total_orders, " +
			"AVG(t.order_total) AS avg_check, " +
			"CASE WHEN COUNT(orders.id) > 1 THEN 1 ELSE 0 END AS is_returning").
		Joins("JOIN (?) AS t ON t.order_id = orders.id", orderTotals).
		Where("orders.status = ?", completed).
		Group("orders.customer_id, month").
		Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	// 2. 每月回头客占比(单条分组SQL,占比本身用共用的纯函数计算,
	//    保证与lazy路径的浮点运算逐位一致)
	monthCustomers := db.Session(&gorm.Session{NewDB: true}).
		Model(&OrderModel{}).
		Select("DATE_FORMAT(order_date, '%Y-%m') AS month, customer_id, COUNT(id) AS order_count").
		Where("status = ?", completed).
		Group("month, customer_id")

	type ratioScan struct {
		Month     string
		Returning int
		Total     int
	}
	var ratioScans []ratioScan
	err = db.Table("(?) AS m", monthCustomers).
		Select("m.month, SUM(m.order_count > 1) AS returning, COUNT(*) AS total").
		Group("m.month").
		Scan(&ratioScans).Error
	if err != nil {
		return nil, err
	}
	ratios := make(map[string]float64, len(ratioScans))
	for _, rs := range ratioScans {
		ratios[rs.Month] = report.ReturningRatio(rs.Returning, rs.Total)
	}

	// 3. 客户信息批量取回
	customerIDs := make([]uint, 0, len(scans))
	seen := make(map[uint]struct{}, len(scans))
	for _, s := range scans {
		if _, ok := seen[s.CustomerID]; !ok {
			seen[s.CustomerID] = struct{}{}
			customerIDs = append(customerIDs, s.CustomerID)
		}
	}
	customers := make(map[uint]UserModel, len(customerIDs))
	if len(customerIDs) > 0 {
		var users []UserModel
		if err := db.Where("id IN ?", customerIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			customers[u.ID] = u
		}
	}

	rows := make([]report.RevenueRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, report.RevenueRow{
			Customer:       toUserRef(customers[s.CustomerID]),
			Month:          s.Month,
			TotalRevenue:   s.TotalRevenue,
			TotalOrders:    s.TotalOrders,
			AvgCheck:       s.AvgCheck,
			IsReturning:    s.IsReturning > 0,
			ReturningRatio: ratios[s.Month],
		})
	}

	sortRevenueRows(rows)
	return rows, nil
}
