package mysql

import (
	"time"

	"github.com/xiebiao/querylab/internal/domain/catalog"
	"github.com/xiebiao/querylab/internal/domain/order"
)

// GORM数据模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag;
//    domain层的实体不依赖GORM,由转换函数负责映射
// 2. 关联关系:
//    - Author 1:N Book(删除作者级联删除图书)
//    - Publisher 1:N Book(删除出版社时图书引用置空)
//    - Book N:M Category(中间表book_categories)
//    - Book 1:N Review(级联删除)
//    - Order 1:N OrderItem(级联删除)
// 3. ISBN、分类名有唯一索引;orders有(customer_id, order_date)复合索引
//    支撑月度营收报表的过滤与分组

// UserModel GORM用户模型
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Email        string    `gorm:"size:100;not null;comment:邮箱"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID        uint        `gorm:"primaryKey"`
	Name      string      `gorm:"index;size:100;not null;comment:姓名"`
	Email     string      `gorm:"size:100;not null;comment:邮箱"`
	Bio       string      `gorm:"type:text;comment:简介"`
	UserID    *uint       `gorm:"index;comment:关联用户ID(可空)"`
	User      *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Books     []BookModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:50;not null;comment:分类名(全局唯一)"`
	Description string `gorm:"type:text;comment:描述"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// PublisherModel GORM出版社模型
type PublisherModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null;comment:名称"`
	Address string `gorm:"type:text;comment:地址"`
	Website string `gorm:"size:200;comment:官网"`
}

// TableName 指定表名
func (PublisherModel) TableName() string {
	return "publishers"
}

// BookModel GORM图书模型
// 多对多中间表列名显式指定为book_id/category_id,
// 避免GORM按模型名派生出book_model_id这类列名
type BookModel struct {
	ID            uint            `gorm:"primaryKey"`
	Title         string          `gorm:"size:200;not null;comment:书名"`
	AuthorID      uint            `gorm:"index;not null;comment:作者ID"`
	Author        AuthorModel     `gorm:"foreignKey:AuthorID"`
	PublisherID   *uint           `gorm:"index;comment:出版社ID(可空)"`
	Publisher     *PublisherModel `gorm:"foreignKey:PublisherID;constraint:OnDelete:SET NULL"`
	Categories    []CategoryModel `gorm:"many2many:book_categories;foreignKey:ID;joinForeignKey:BookID;references:ID;joinReferences:CategoryID"`
	Reviews       []ReviewModel   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	ISBN          string          `gorm:"uniqueIndex;size:13;not null;comment:ISBN号"`
	Price         int64           `gorm:"not null;comment:定价(分)"`
	Pages         int             `gorm:"not null;comment:页数"`
	PublishedDate time.Time       `gorm:"index;not null;comment:出版日期"`
	CreatedAt     time.Time       `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM评论模型
type ReviewModel struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"index;not null;comment:图书ID"`
	ReviewerID uint      `gorm:"index;not null;comment:评论者用户ID"`
	Reviewer   UserModel `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE"`
	Rating     int       `gorm:"not null;comment:评分(1-5)"`
	Comment    string    `gorm:"type:text;comment:评论内容"`
	CreatedAt  time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}

// OrderModel GORM订单模型
// TotalAmount是冗余字段,由填充流程批量重算;报表端的营收计算
// 一律从order_items实时求和,不读取该缓存值
type OrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	CustomerID      uint             `gorm:"index:idx_customer_date;not null;comment:买家用户ID"`
	Customer        UserModel        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	OrderDate       time.Time        `gorm:"index:idx_customer_date;index;not null;comment:下单时间"`
	Status          string           `gorm:"index;size:20;not null;default:completed;comment:状态(pending/completed/cancelled)"`
	TotalAmount     int64            `gorm:"not null;default:0;comment:订单总金额(分),冗余字段"`
	ShippingAddress string           `gorm:"type:text;comment:收货地址"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// Price记录下单时单价快照(可能低于图书当前定价)
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	BookID   uint  `gorm:"index;not null;comment:图书ID"`
	Quantity int   `gorm:"not null;comment:购买数量"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// =========================================
// 辅助函数:领域实体 → GORM模型
// =========================================

// toUserModel 用户实体 → GORM模型
func toUserModel(u catalog.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// toAuthorModel 作者实体 → GORM模型(不带关联)
func toAuthorModel(a catalog.Author) AuthorModel {
	return AuthorModel{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Bio:       a.Bio,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
	}
}

// toBookModel 图书实体 → GORM模型(不带关联)
func toBookModel(b catalog.Book) BookModel {
	return BookModel{
		ID:            b.ID,
		Title:         b.Title,
		AuthorID:      b.AuthorID,
		PublisherID:   b.PublisherID,
		ISBN:          b.ISBN,
		Price:         b.Price,
		Pages:         b.Pages,
		PublishedDate: b.PublishedDate,
		CreatedAt:     b.CreatedAt,
	}
}

// toReviewModel 评论实体 → GORM模型
func toReviewModel(r catalog.Review) ReviewModel {
	return ReviewModel{
		ID:         r.ID,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// toOrderModel 订单实体 → GORM模型(含明细)
func toOrderModel(o *order.Order) OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return OrderModel{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		OrderDate:       o.OrderDate,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
	}
}
