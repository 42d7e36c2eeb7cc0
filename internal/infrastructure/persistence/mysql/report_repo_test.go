//go:build integration
// +build integration

package mysql

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/querylab/internal/domain/catalog"
	"github.com/xiebiao/querylab/internal/domain/order"
	"github.com/xiebiao/querylab/internal/domain/report"
	"github.com/xiebiao/querylab/internal/seed"
)

// 集成测试:用testcontainers起真实MySQL,
// 验证lazy/batched两条路径产出一致的结果、查询次数符合预期。
// 运行方式:go test -tags integration ./internal/infrastructure/persistence/mysql/

var (
	testDBOnce sync.Once
	testDB     *gorm.DB
	testDBErr  error
)

// getTestDB 返回包内共享的MySQL容器连接
// 容器由testcontainers的reaper在进程退出后回收
func getTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBOnce.Do(func() {
		ctx := context.Background()

		container, err := tcmysql.Run(ctx, "mysql:8.0",
			tcmysql.WithDatabase("querylab_test"),
			tcmysql.WithUsername("test"),
			tcmysql.WithPassword("test"),
		)
		if err != nil {
			testDBErr = err
			return
		}

		dsn, err := container.ConnectionString(ctx, "charset=utf8mb4", "parseTime=true", "loc=UTC")
		if err != nil {
			testDBErr = err
			return
		}

		db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			testDBErr = err
			return
		}
		if err := db.Use(&QueryCounterPlugin{}); err != nil {
			testDBErr = err
			return
		}
		if err := AutoMigrate(db); err != nil {
			testDBErr = err
			return
		}
		testDB = db
	})

	if testDBErr != nil {
		t.Fatalf("初始化测试数据库失败: %v", testDBErr)
	}
	return testDB
}

// seedGenerated 用固定种子填充一批随机数据
func seedGenerated(t *testing.T, db *gorm.DB, counts seed.Counts) *seed.Dataset {
	t.Helper()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ds, err := seed.Generate(rand.New(rand.NewSource(42)), now, counts)
	require.NoError(t, err)
	require.NoError(t, NewSeedRepository(db).Replace(context.Background(), ds))
	return ds
}

func TestReportStrategyEquivalence(t *testing.T) {
	db := getTestDB(t)
	seedGenerated(t, db, seed.Counts{Authors: 8, Books: 30, Orders: 60})

	repo := NewReportRepository(db)
	ctx := context.Background()

	t.Run("图书列表", func(t *testing.T) {
		lazyRows, lazyCount, err := repo.BookListing(ctx, report.StrategyLazy, report.DefaultBookLimit)
		require.NoError(t, err)
		batchedRows, batchedCount, err := repo.BookListing(ctx, report.StrategyBatched, report.DefaultBookLimit)
		require.NoError(t, err)

		assert.Equal(t, lazyRows, batchedRows)
		// batched固定3次:主查询JOIN作者/出版社 + 分类批量加载(中间表、分类表各1次)
		assert.Equal(t, int64(3), batchedCount)
		assert.Greater(t, lazyCount, batchedCount)
	})

	t.Run("作者列表", func(t *testing.T) {
		lazyRows, lazyCount, err := repo.AuthorListing(ctx, report.StrategyLazy, report.DefaultAuthorLimit)
		require.NoError(t, err)
		batchedRows, batchedCount, err := repo.AuthorListing(ctx, report.StrategyBatched, report.DefaultAuthorLimit)
		require.NoError(t, err)

		assert.Equal(t, lazyRows, batchedRows)
		assert.Equal(t, int64(2), batchedCount)
		assert.Greater(t, lazyCount, batchedCount)
	})

	t.Run("带评论的图书", func(t *testing.T) {
		lazyRows, lazyCount, err := repo.BooksWithReviews(ctx, report.StrategyLazy, report.DefaultBookReviewsLimit)
		require.NoError(t, err)
		batchedRows, batchedCount, err := repo.BooksWithReviews(ctx, report.StrategyBatched, report.DefaultBookReviewsLimit)
		require.NoError(t, err)

		assert.Equal(t, lazyRows, batchedRows)
		assert.Equal(t, int64(2), batchedCount)
		assert.Greater(t, lazyCount, batchedCount)
	})

	t.Run("作者统计", func(t *testing.T) {
		lazyRows, lazyCount, err := repo.AuthorStats(ctx, report.StrategyLazy, report.DefaultAuthorStatsLimit)
		require.NoError(t, err)
		batchedRows, batchedCount, err := repo.AuthorStats(ctx, report.StrategyBatched, report.DefaultAuthorStatsLimit)
		require.NoError(t, err)

		require.Equal(t, len(lazyRows), len(batchedRows))
		for i := range lazyRows {
			assert.Equal(t, lazyRows[i].Author, batchedRows[i].Author)
			assert.Equal(t, lazyRows[i].BookCount, batchedRows[i].BookCount)
			if lazyRows[i].AvgRating == nil {
				assert.Nil(t, batchedRows[i].AvgRating)
			} else {
				require.NotNil(t, batchedRows[i].AvgRating)
				assert.InDelta(t, *lazyRows[i].AvgRating, *batchedRows[i].AvgRating, 0.0001)
			}
		}
		// batched必须是单条分组聚合SQL
		assert.Equal(t, int64(1), batchedCount)
		assert.Greater(t, lazyCount, batchedCount)
	})

	t.Run("月度营收", func(t *testing.T) {
		lazyRows, lazyCount, err := repo.MonthlyRevenue(ctx, report.StrategyLazy)
		require.NoError(t, err)
		batchedRows, batchedCount, err := repo.MonthlyRevenue(ctx, report.StrategyBatched)
		require.NoError(t, err)

		require.Equal(t, len(lazyRows), len(batchedRows))
		for i := range lazyRows {
			assert.Equal(t, lazyRows[i].Customer, batchedRows[i].Customer)
			assert.Equal(t, lazyRows[i].Month, batchedRows[i].Month)
			assert.Equal(t, lazyRows[i].TotalRevenue, batchedRows[i].TotalRevenue)
			assert.Equal(t, lazyRows[i].TotalOrders, batchedRows[i].TotalOrders)
			assert.Equal(t, lazyRows[i].IsReturning, batchedRows[i].IsReturning)
			// 平均值一个在应用侧除,一个由SQL的AVG算出,只保证舍入误差内一致
			assert.InDelta(t, lazyRows[i].AvgCheck, batchedRows[i].AvgCheck, 0.01)
			assert.InDelta(t, lazyRows[i].ReturningRatio, batchedRows[i].ReturningRatio, 0.01)
		}
		// batched固定3次:分组聚合 + 回头客占比 + 客户批量查询
		assert.Equal(t, int64(3), batchedCount)
		assert.Greater(t, lazyCount, batchedCount)
	})
}

// TestMonthlyRevenueScenario 手工构造的最小场景:
// jane在2024年3月有两笔completed订单($30+$50)和一笔cancelled订单,
// bob同月只有一笔订单
func TestMonthlyRevenueScenario(t *testing.T) {
	db := getTestDB(t)

	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := &seed.Dataset{
		Users: []catalog.User{
			{ID: 1, Username: "jane", Email: "jane@example.com", PasswordHash: "x", CreatedAt: now},
			{ID: 2, Username: "bob", Email: "bob@example.com", PasswordHash: "x", CreatedAt: now},
		},
		Authors: []catalog.Author{
			{ID: 1, Name: "Jane Doe", Email: "jd@example.com", CreatedAt: now},
		},
		Books: []catalog.Book{
			{ID: 1, Title: "Scenario Book", AuthorID: 1, ISBN: "9780000000001", Price: 9999, Pages: 100,
				PublishedDate: now.AddDate(-1, 0, 0), CreatedAt: now},
		},
	}

	mustOrder := func(id uint, customerID uint, day int, status order.OrderStatus, price int64) *order.Order {
		o, err := order.NewOrder(customerID,
			time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC),
			status, "addr",
			[]order.OrderItem{{ID: id, OrderID: id, BookID: 1, Quantity: 1, Price: price}})
		require.NoError(t, err)
		o.ID = id
		return o
	}
	ds.Orders = []*order.Order{
		mustOrder(1, 1, 10, order.StatusCompleted, 3000),
		mustOrder(2, 1, 20, order.StatusCompleted, 5000),
		mustOrder(3, 1, 25, order.StatusCancelled, 9999), // 不计入营收
		mustOrder(4, 2, 5, order.StatusCompleted, 2000),
	}

	require.NoError(t, NewSeedRepository(db).Replace(context.Background(), ds))
	repo := NewReportRepository(db)

	for _, strategy := range []report.FetchStrategy{report.StrategyLazy, report.StrategyBatched} {
		rows, _, err := repo.MonthlyRevenue(context.Background(), strategy)
		require.NoError(t, err)
		require.Len(t, rows, 2, "strategy=%s", strategy)

		// 排序:(month, username),bob在前
		bob, jane := rows[0], rows[1]
		assert.Equal(t, "bob", bob.Customer.Username)
		assert.Equal(t, "2024-03", bob.Month)
		assert.Equal(t, int64(2000), bob.TotalRevenue)
		assert.Equal(t, int64(1), bob.TotalOrders)
		assert.False(t, bob.IsReturning)

		assert.Equal(t, "jane", jane.Customer.Username)
		assert.Equal(t, "2024-03", jane.Month)
		assert.Equal(t, int64(8000), jane.TotalRevenue)
		assert.Equal(t, int64(2), jane.TotalOrders)
		assert.InDelta(t, 4000.0, jane.AvgCheck, 0.01)
		assert.True(t, jane.IsReturning)

		// 当月2位客户,1位回头客
		assert.InDelta(t, 50.0, bob.ReturningRatio, 0.01)
		assert.InDelta(t, 50.0, jane.ReturningRatio, 0.01)
	}
}

// TestAuthorStatsEdgeCases 作者统计的边界:
// 零图书作者、有图书无评论作者都正常出现,均值为NULL而不是0
func TestAuthorStatsEdgeCases(t *testing.T) {
	db := getTestDB(t)

	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := &seed.Dataset{
		Users: []catalog.User{
			{ID: 1, Username: "reader", Email: "r@example.com", PasswordHash: "x", CreatedAt: now},
		},
		Authors: []catalog.Author{
			{ID: 1, Name: "Alice", Email: "a@example.com", CreatedAt: now},
			{ID: 2, Name: "Bob", Email: "b@example.com", CreatedAt: now},
			{ID: 3, Name: "Carol", Email: "c@example.com", CreatedAt: now},
		},
		Books: []catalog.Book{
			// Alice一本书,无评论
			{ID: 1, Title: "No Reviews", AuthorID: 1, ISBN: "9780000000011", Price: 1000, Pages: 100,
				PublishedDate: now.AddDate(-1, 0, 0), CreatedAt: now},
			// Carol两本书,其中一本有两条评论
			{ID: 2, Title: "Rated", AuthorID: 3, ISBN: "9780000000012", Price: 1000, Pages: 100,
				PublishedDate: now.AddDate(-2, 0, 0), CreatedAt: now},
			{ID: 3, Title: "Unrated", AuthorID: 3, ISBN: "9780000000013", Price: 1000, Pages: 100,
				PublishedDate: now.AddDate(-3, 0, 0), CreatedAt: now},
		},
		Reviews: []catalog.Review{
			{ID: 1, BookID: 2, ReviewerID: 1, Rating: 4, Comment: "good", CreatedAt: now},
			{ID: 2, BookID: 2, ReviewerID: 1, Rating: 5, Comment: "great", CreatedAt: now},
		},
	}
	require.NoError(t, NewSeedRepository(db).Replace(context.Background(), ds))
	repo := NewReportRepository(db)

	for _, strategy := range []report.FetchStrategy{report.StrategyLazy, report.StrategyBatched} {
		rows, _, err := repo.AuthorStats(context.Background(), strategy, report.DefaultAuthorStatsLimit)
		require.NoError(t, err)
		require.Len(t, rows, 3, "strategy=%s", strategy)

		alice, bob, carol := rows[0], rows[1], rows[2]

		assert.Equal(t, "Alice", alice.Author.Name)
		assert.Equal(t, int64(1), alice.BookCount)
		assert.Nil(t, alice.AvgRating, "无评论的作者均值应为NULL")

		assert.Equal(t, "Bob", bob.Author.Name)
		assert.Zero(t, bob.BookCount)
		assert.Nil(t, bob.AvgRating)

		// 评论JOIN会放大图书行,图书数必须按DISTINCT计
		assert.Equal(t, "Carol", carol.Author.Name)
		assert.Equal(t, int64(2), carol.BookCount)
		require.NotNil(t, carol.AvgRating)
		assert.InDelta(t, 4.5, *carol.AvgRating, 0.0001)
	}
}

// TestBookListingNullPublisher 没有出版社的图书正常出现,出版社为null
func TestBookListingNullPublisher(t *testing.T) {
	db := getTestDB(t)

	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := &seed.Dataset{
		Authors: []catalog.Author{
			{ID: 1, Name: "Jane Doe", Email: "jd@example.com", CreatedAt: now},
		},
		Publishers: []catalog.Publisher{
			{ID: 1, Name: "Acme Press"},
		},
		Books: []catalog.Book{
			{ID: 1, Title: "With Publisher", AuthorID: 1, PublisherID: ptrUint(1), ISBN: "9780000000021",
				Price: 1000, Pages: 100, PublishedDate: now.AddDate(-1, 0, 0), CreatedAt: now},
			{ID: 2, Title: "Self Published", AuthorID: 1, ISBN: "9780000000022",
				Price: 1000, Pages: 100, PublishedDate: now.AddDate(-2, 0, 0), CreatedAt: now},
		},
	}
	require.NoError(t, NewSeedRepository(db).Replace(context.Background(), ds))
	repo := NewReportRepository(db)

	for _, strategy := range []report.FetchStrategy{report.StrategyLazy, report.StrategyBatched} {
		rows, _, err := repo.BookListing(context.Background(), strategy, report.DefaultBookLimit)
		require.NoError(t, err)
		require.Len(t, rows, 2, "strategy=%s", strategy)

		// published_date DESC:有出版社的在前
		require.NotNil(t, rows[0].Publisher)
		assert.Equal(t, "Acme Press", rows[0].Publisher.Name)
		assert.Equal(t, "Jane Doe", rows[0].Author.Name)

		assert.Nil(t, rows[1].Publisher)
		assert.Equal(t, "Self Published", rows[1].Title)
	}
}

func TestSeedReplace(t *testing.T) {
	db := getTestDB(t)
	ds := seedGenerated(t, db, seed.Counts{Authors: 4, Books: 10, Orders: 20})

	var bookCount, orderCount int64
	require.NoError(t, db.Model(&BookModel{}).Count(&bookCount).Error)
	require.NoError(t, db.Model(&OrderModel{}).Count(&orderCount).Error)
	assert.Equal(t, int64(10), bookCount)
	assert.Equal(t, int64(20), orderCount)

	// 冗余的total_amount与明细求和严格一致
	type check struct {
		ID          uint
		TotalAmount int64
		ItemTotal   int64
	}
	var checks []check
	err := db.Model(&OrderModel{}).
		Select("orders.id, orders.total_amount, SUM(order_items.quantity * order_items.price) AS item_total").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Group("orders.id, orders.total_amount").
		Scan(&checks).Error
	require.NoError(t, err)
	require.Len(t, checks, len(ds.Orders))
	for _, c := range checks {
		assert.Equal(t, c.ItemTotal, c.TotalAmount, "订单%d", c.ID)
	}

	// 重复填充:先清空后写入,数量不翻倍
	seedGenerated(t, db, seed.Counts{Authors: 4, Books: 10, Orders: 20})
	require.NoError(t, db.Model(&BookModel{}).Count(&bookCount).Error)
	assert.Equal(t, int64(10), bookCount)
}

func TestSeedReplaceDuplicateISBN(t *testing.T) {
	db := getTestDB(t)

	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := &seed.Dataset{
		Authors: []catalog.Author{
			{ID: 1, Name: "Dup", Email: "d@example.com", CreatedAt: now},
		},
		Books: []catalog.Book{
			{ID: 1, Title: "A", AuthorID: 1, ISBN: "9780000000031", Price: 1, Pages: 1, PublishedDate: now, CreatedAt: now},
			{ID: 2, Title: "B", AuthorID: 1, ISBN: "9780000000031", Price: 1, Pages: 1, PublishedDate: now, CreatedAt: now},
		},
	}

	err := NewSeedRepository(db).Replace(context.Background(), ds)
	assert.ErrorIs(t, err, catalog.ErrISBNDuplicate)
}

func TestInvalidStrategyAndLimit(t *testing.T) {
	db := getTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	_, _, err := repo.BookListing(ctx, report.FetchStrategy("eager"), 10)
	assert.ErrorIs(t, err, report.ErrInvalidStrategy)

	_, _, err = repo.AuthorStats(ctx, report.StrategyBatched, 0)
	assert.ErrorIs(t, err, report.ErrInvalidLimit)
}

func ptrUint(v uint) *uint {
	return &v
}
