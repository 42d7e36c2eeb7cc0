package catalog

import (
	"time"
)

// 商品目录领域实体
// 设计说明:
// 1. 实体不携带GORM tag,数据模型定义在infrastructure层,由Repository负责转换
// 2. 金额统一使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 可空外键使用*uint表达(如Book.PublisherID,图书可以没有出版社)

// User 用户实体
// 既是评论者(Review.ReviewerID),也是订单买家(Order.CustomerID),
// 也可以作为作者的关联账号(Author.UserID)
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string // bcrypt加密后的密码
	CreatedAt    time.Time
}

// Author 作者实体
// 拥有零或多本图书;删除作者时级联删除其图书
type Author struct {
	ID        uint
	Name      string
	Email     string
	Bio       string
	UserID    *uint // 关联的用户账号(可空)
	CreatedAt time.Time
}

// Category 图书分类
// Name全局唯一,与Book是多对多关系
type Category struct {
	ID          uint
	Name        string
	Description string
}

// Publisher 出版社
// 被多本图书引用;删除出版社时图书的引用置空(SET NULL)
type Publisher struct {
	ID      uint
	Name    string
	Address string
	Website string
}

// Book 图书实体
// 1. AuthorID必填,PublisherID可空
// 2. ISBN全局唯一(数据库层唯一索引保证)
// 3. Price单位为分
type Book struct {
	ID            uint
	Title         string
	AuthorID      uint
	PublisherID   *uint
	ISBN          string
	Price         int64 // 价格(分)
	Pages         int
	PublishedDate time.Time
	CreatedAt     time.Time
}

// Review 图书评论
// Rating限定在[1,5],越界视为非法评论
type Review struct {
	ID         uint
	BookID     uint
	ReviewerID uint
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// NewReview 创建评论(工厂方法)
// 业务规则:评分必须在1-5之间
func NewReview(bookID, reviewerID uint, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return &Review{
		BookID:     bookID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}, nil
}

// NewBook 创建图书(工厂方法)
// 业务规则:价格必须>0,页数必须>0,ISBN非空
func NewBook(title string, authorID uint, publisherID *uint, isbn string, price int64, pages int, publishedDate time.Time) (*Book, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if pages <= 0 {
		return nil, ErrInvalidPages
	}
	if isbn == "" {
		return nil, ErrInvalidISBN
	}
	return &Book{
		Title:         title,
		AuthorID:      authorID,
		PublisherID:   publisherID,
		ISBN:          isbn,
		Price:         price,
		Pages:         pages,
		PublishedDate: publishedDate,
		CreatedAt:     time.Now(),
	}, nil
}
