// Package seed 提供测试数据集的纯生成器
//
// 设计说明:
// 1. Generate是纯函数:随机源、当前时间、目标数量全部显式传入,
//    相同输入必然产出相同的数据集(密码哈希除外,bcrypt带随机盐),
//    测试可以用固定种子获得可复现的实体图
// 2. 生成器只在内存中构建实体图并预分配ID,不触碰数据库;
//    落库由infrastructure层的SeedRepository负责
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/querylab/internal/domain/catalog"
	"github.com/xiebiao/querylab/internal/domain/order"
)

// Counts 生成目标数量
type Counts struct {
	Authors int // 作者数(同时也是用户数)
	Books   int
	Orders  int
}

// DefaultCounts 默认生成规模
func DefaultCounts() Counts {
	return Counts{Authors: 20, Books: 100, Orders: 200}
}

// BookCategory 图书-分类关联(多对多中间行)
type BookCategory struct {
	BookID     uint
	CategoryID uint
}

// Dataset 生成的完整实体图
// 所有ID在生成时预分配(从1开始连续),落库时按原值写入
type Dataset struct {
	Users          []catalog.User
	Authors        []catalog.Author
	Categories     []catalog.Category
	Publishers     []catalog.Publisher
	Books          []catalog.Book
	BookCategories []BookCategory
	Reviews        []catalog.Review
	Orders         []*order.Order
}

// 固定的基础数据(分类、出版社、姓名、书名、评论文案)

var categorySeed = [][2]string{
	{"Fiction", "Fictional stories and novels"},
	{"Non-Fiction", "Factual and informative books"},
	{"Science Fiction", "Speculative fiction with scientific elements"},
	{"Mystery", "Mystery and detective stories"},
	{"Romance", "Romantic fiction"},
	{"Thriller", "Suspenseful and exciting stories"},
	{"Biography", "Biographical works"},
	{"History", "Historical accounts and analysis"},
	{"Science", "Scientific and technical books"},
	{"Philosophy", "Philosophical works"},
}

var publisherSeed = [][3]string{
	{"Penguin Random House", "1745 Broadway, New York, NY 10019", "https://www.penguinrandomhouse.com"},
	{"HarperCollins", "195 Broadway, New York, NY 10007", "https://www.harpercollins.com"},
	{"Simon & Schuster", "1230 Avenue of the Americas, New York, NY 10020", "https://www.simonandschuster.com"},
	{"Macmillan Publishers", "120 Broadway, New York, NY 10271", "https://www.macmillan.com"},
	{"Hachette Book Group", "1290 Avenue of the Americas, New York, NY 10104", "https://www.hachettebookgroup.com"},
}

var firstNames = []string{"John", "Jane", "Michael", "Sarah", "David", "Emily", "Robert", "Jessica", "William", "Amanda"}

var lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}

var bookTitles = []string{
	"The Great Adventure", "Mystery of the Night", "Love in Paris", "Science and Discovery",
	"The Hidden Truth", "Journey to the Stars", "Secrets of the Past", "Future Worlds",
	"The Last Stand", "Echoes of Time", "Beyond the Horizon", "The Final Chapter",
	"Shadows and Light", "The Quest Begins", "Endless Possibilities", "The Turning Point",
	"Lost and Found", "The Perfect Storm", "Breaking Barriers", "The New Dawn",
}

var reviewComments = []string{
	"Great book! Highly recommended.",
	"A wonderful read from start to finish.",
	"Interesting plot and well-developed characters.",
	"Could not put it down!",
	"A bit slow in the beginning but picks up.",
	"Not my favorite, but still enjoyable.",
	"Excellent writing style and engaging story.",
	"The ending was a bit disappointing.",
	"One of the best books I have read this year.",
	"Well worth the time to read.",
}

// Generate 生成完整数据集
// 规则:
//   - 用户数=作者数,第i个作者关联第i个用户
//   - 约10%的图书没有出版社
//   - 每本书1-3个分类、0-5条评论
//   - 订单分布在now之前180天内,每单1-5个明细,
//     明细单价=图书定价*[0.8,1.0]折扣(取整到分,钳制在[1,定价])
//   - 订单状态:约80%completed、10%pending、10%cancelled
func Generate(rng *rand.Rand, now time.Time, counts Counts) (*Dataset, error) {
	if counts.Authors <= 0 || counts.Books <= 0 || counts.Orders < 0 {
		return nil, fmt.Errorf("生成数量非法: %+v", counts)
	}

	ds := &Dataset{}

	// 1. 分类(固定列表)
	for i, c := range categorySeed {
		ds.Categories = append(ds.Categories, catalog.Category{
			ID:          uint(i + 1),
			Name:        c[0],
			Description: c[1],
		})
	}

	// 2. 出版社(固定列表)
	for i, p := range publisherSeed {
		ds.Publishers = append(ds.Publishers, catalog.Publisher{
			ID:      uint(i + 1),
			Name:    p[0],
			Address: p[1],
			Website: p[2],
		})
	}

	// 3. 用户
	// 密码哈希只算一次:bcrypt开销大,且所有测试用户共用同一密码
	hash, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}
	for i := 0; i < counts.Authors; i++ {
		username := fmt.Sprintf("user_%d", i+1)
		ds.Users = append(ds.Users, catalog.User{
			ID:           uint(i + 1),
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: string(hash),
			CreatedAt:    now,
		})
	}

	// 4. 作者(第i个作者绑定第i个用户)
	for i := 0; i < counts.Authors; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		userID := ds.Users[i].ID
		ds.Authors = append(ds.Authors, catalog.Author{
			ID:        uint(i + 1),
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last)),
			Bio:       fmt.Sprintf("Biography of %s %s, a talented author with many published works.", first, last),
			UserID:    &userID,
			CreatedAt: now,
		})
	}

	// 5. 图书
	usedISBN := make(map[string]struct{}, counts.Books)
	for i := 0; i < counts.Books; i++ {
		author := ds.Authors[rng.Intn(len(ds.Authors))]

		// 约10%的图书没有出版社
		var publisherID *uint
		if rng.Float64() > 0.1 {
			id := ds.Publishers[rng.Intn(len(ds.Publishers))].ID
			publisherID = &id
		}

		isbn := randomISBN(rng, usedISBN)
		book := catalog.Book{
			ID:            uint(i + 1),
			Title:         fmt.Sprintf("%s %d", bookTitles[rng.Intn(len(bookTitles))], i+1),
			AuthorID:      author.ID,
			PublisherID:   publisherID,
			ISBN:          isbn,
			Price:         999 + rng.Int63n(4001), // 9.99~49.99元
			Pages:         100 + rng.Intn(701),
			PublishedDate: now.AddDate(0, 0, -rng.Intn(3651)),
			CreatedAt:     now,
		}
		ds.Books = append(ds.Books, book)

		// 每本书1-3个不重复的分类
		for _, ci := range rng.Perm(len(ds.Categories))[:1+rng.Intn(3)] {
			ds.BookCategories = append(ds.BookCategories, BookCategory{
				BookID:     book.ID,
				CategoryID: ds.Categories[ci].ID,
			})
		}
	}

	// 6. 评论(每本书0-5条)
	var reviewID uint
	for _, book := range ds.Books {
		for j := 0; j < rng.Intn(6); j++ {
			reviewID++
			reviewer := ds.Users[rng.Intn(len(ds.Users))]
			ds.Reviews = append(ds.Reviews, catalog.Review{
				ID:         reviewID,
				BookID:     book.ID,
				ReviewerID: reviewer.ID,
				Rating:     1 + rng.Intn(5),
				Comment:    reviewComments[rng.Intn(len(reviewComments))],
				CreatedAt:  now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour),
			})
		}
	}

	// 7. 订单(分布在最近180天)
	var itemID uint
	for i := 0; i < counts.Orders; i++ {
		customer := ds.Users[rng.Intn(len(ds.Users))]
		orderDate := now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour)

		// 每单1-5本不重复的图书
		numItems := 1 + rng.Intn(5)
		if numItems > len(ds.Books) {
			numItems = len(ds.Books)
		}
		items := make([]order.OrderItem, 0, numItems)
		for _, bi := range rng.Perm(len(ds.Books))[:numItems] {
			book := ds.Books[bi]
			itemID++
			items = append(items, order.OrderItem{
				ID:       itemID,
				OrderID:  uint(i + 1),
				BookID:   book.ID,
				Quantity: 1 + rng.Intn(3),
				Price:    discountPrice(rng, book.Price),
			})
		}

		o, err := order.NewOrder(customer.ID, orderDate, randomStatus(rng), randomAddress(rng), items)
		if err != nil {
			return nil, err
		}
		o.ID = uint(i + 1)
		ds.Orders = append(ds.Orders, o)
	}

	return ds, nil
}

// discountPrice 按[0.8,1.0]折扣计算下单价(分)
// 钳制策略:四舍五入到整数分,下限1分,上限不超过图书定价
func discountPrice(rng *rand.Rand, listPrice int64) int64 {
	factor := 0.8 + rng.Float64()*0.2
	price := int64(math.Round(float64(listPrice) * factor))
	if price < 1 {
		price = 1
	}
	if price > listPrice {
		price = listPrice
	}
	return price
}

// randomISBN 生成全局唯一的13位数字ISBN
func randomISBN(rng *rand.Rand, used map[string]struct{}) string {
	for {
		digits := make([]byte, 13)
		for i := range digits {
			digits[i] = byte('0' + rng.Intn(10))
		}
		isbn := string(digits)
		if _, ok := used[isbn]; !ok {
			used[isbn] = struct{}{}
			return isbn
		}
	}
}

// randomStatus 随机订单状态(约80%completed、10%pending、10%cancelled)
func randomStatus(rng *rand.Rand) order.OrderStatus {
	switch rng.Intn(10) {
	case 0:
		return order.StatusPending
	case 1:
		return order.StatusCancelled
	default:
		return order.StatusCompleted
	}
}

// randomAddress 随机收货地址
func randomAddress(rng *rand.Rand) string {
	return fmt.Sprintf("%d Main St, City, State %d", 100+rng.Intn(9900), 10000+rng.Intn(90000))
}
