package mysql

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/querylab/internal/domain/catalog"
	"github.com/xiebiao/querylab/internal/seed"
	apperrors "github.com/xiebiao/querylab/pkg/errors"
)

// 批量写入的单批行数
const seedBatchSize = 200

// bookCategoryRow 多对多中间表行(book_categories)
type bookCategoryRow struct {
	BookID     uint
	CategoryID uint
}

// seedRepository 数据填充仓储的GORM实现
type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository 创建数据填充仓储
func NewSeedRepository(db *gorm.DB) seed.Repository {
	return &seedRepository{db: db}
}

// Replace 清空并重建全部数据
// 设计说明:
// 1. 整个过程在单个事务内完成:清空用DELETE而不是TRUNCATE,
//    TRUNCATE在MySQL里是DDL,会隐式提交导致半成品数据可见
// 2. 删除按外键依赖的子表→父表顺序进行,不关闭外键检查
// 3. 写入用CreateInBatches分批,避免单条INSERT超出
//    max_allowed_packet;数据集的ID是预分配的,按原值写入
// 4. 订单冗余的total_amount最后由一条UPDATE JOIN在库内按明细重算,
//    保证冗余值与明细求和严格一致
func (r *seedRepository) Replace(ctx context.Context, ds *seed.Dataset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 清空(子表在前)
		tables := []string{
			"order_items", "orders", "reviews", "book_categories",
			"books", "publishers", "categories", "authors", "users",
		}
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return apperrors.Wrapf(err, "清空表%s失败", table)
			}
		}

		// 用户/作者/分类/出版社
		users := make([]UserModel, len(ds.Users))
		for i, u := range ds.Users {
			users[i] = toUserModel(u)
		}
		if err := tx.CreateInBatches(&users, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入用户失败")
		}

		authors := make([]AuthorModel, len(ds.Authors))
		for i, a := range ds.Authors {
			authors[i] = toAuthorModel(a)
		}
		if err := tx.CreateInBatches(&authors, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入作者失败")
		}

		categories := make([]CategoryModel, len(ds.Categories))
		for i, c := range ds.Categories {
			categories[i] = CategoryModel{ID: c.ID, Name: c.Name, Description: c.Description}
		}
		if err := tx.CreateInBatches(&categories, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入分类失败")
		}

		publishers := make([]PublisherModel, len(ds.Publishers))
		for i, p := range ds.Publishers {
			publishers[i] = PublisherModel{ID: p.ID, Name: p.Name, Address: p.Address, Website: p.Website}
		}
		if err := tx.CreateInBatches(&publishers, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入出版社失败")
		}

		// 图书(不带关联,分类关系单独写中间表)
		books := make([]BookModel, len(ds.Books))
		for i, b := range ds.Books {
			books[i] = toBookModel(b)
		}
		if err := tx.Omit("Author", "Publisher", "Categories", "Reviews").
			CreateInBatches(&books, seedBatchSize).Error; err != nil {
			if isDuplicateError(err) {
				return catalog.ErrISBNDuplicate
			}
			return apperrors.Wrap(err, "写入图书失败")
		}

		bookCategories := make([]bookCategoryRow, len(ds.BookCategories))
		for i, bc := range ds.BookCategories {
			bookCategories[i] = bookCategoryRow{BookID: bc.BookID, CategoryID: bc.CategoryID}
		}
		if err := tx.Table("book_categories").
			CreateInBatches(&bookCategories, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入图书分类关联失败")
		}

		// 评论
		reviews := make([]ReviewModel, len(ds.Reviews))
		for i, rv := range ds.Reviews {
			reviews[i] = toReviewModel(rv)
		}
		if err := tx.Omit("Reviewer").CreateInBatches(&reviews, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入评论失败")
		}

		// 订单与明细
		orders := make([]OrderModel, len(ds.Orders))
		items := make([]OrderItemModel, 0, len(ds.Orders)*3)
		for i, o := range ds.Orders {
			m := toOrderModel(o)
			items = append(items, m.Items...)
			m.Items = nil
			orders[i] = m
		}
		if err := tx.Omit("Customer", "Items").CreateInBatches(&orders, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入订单失败")
		}
		if err := tx.CreateInBatches(&items, seedBatchSize).Error; err != nil {
			return apperrors.Wrap(err, "写入订单明细失败")
		}

		// 库内重算订单总金额
		err := tx.Exec(`
			UPDATE orders o
			JOIN (
				SELECT order_id, SUM(quantity * price) AS total
				FROM order_items
				GROUP BY order_id
			) t ON t.order_id = o.id
			SET o.total_amount = t.total`).Error
		if err != nil {
			return apperrors.Wrap(err, "重算订单总金额失败")
		}

		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Wrap(err, "数据填充失败")
	}
	return nil
}

// isDuplicateError 判断是否为MySQL唯一键冲突(错误码1062)
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
