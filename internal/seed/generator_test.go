package seed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/querylab/internal/domain/order"
)

func testNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestGenerateCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	counts := Counts{Authors: 5, Books: 20, Orders: 30}

	ds, err := Generate(rng, testNow(), counts)
	require.NoError(t, err)

	assert.Len(t, ds.Users, 5)
	assert.Len(t, ds.Authors, 5)
	assert.Len(t, ds.Books, 20)
	assert.Len(t, ds.Orders, 30)
	assert.Len(t, ds.Categories, 10)
	assert.Len(t, ds.Publishers, 5)
}

func TestGenerateInvalidCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Generate(rng, testNow(), Counts{Authors: 0, Books: 10, Orders: 10})
	assert.Error(t, err)

	_, err = Generate(rng, testNow(), Counts{Authors: 10, Books: 10, Orders: -1})
	assert.Error(t, err)
}

func TestGenerateDeterministic(t *testing.T) {
	counts := Counts{Authors: 5, Books: 15, Orders: 20}

	ds1, err := Generate(rand.New(rand.NewSource(7)), testNow(), counts)
	require.NoError(t, err)
	ds2, err := Generate(rand.New(rand.NewSource(7)), testNow(), counts)
	require.NoError(t, err)

	// 相同种子产出相同的实体图(密码哈希除外,bcrypt带随机盐)
	assert.Equal(t, ds1.Authors, ds2.Authors)
	assert.Equal(t, ds1.Books, ds2.Books)
	assert.Equal(t, ds1.BookCategories, ds2.BookCategories)
	assert.Equal(t, ds1.Reviews, ds2.Reviews)
	assert.Equal(t, ds1.Orders, ds2.Orders)
	for i := range ds1.Users {
		assert.Equal(t, ds1.Users[i].Username, ds2.Users[i].Username)
		assert.Equal(t, ds1.Users[i].Email, ds2.Users[i].Email)
	}
}

func TestGenerateReferentialIntegrity(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	ds, err := Generate(rng, testNow(), Counts{Authors: 8, Books: 40, Orders: 50})
	require.NoError(t, err)

	authorIDs := make(map[uint]struct{})
	for _, a := range ds.Authors {
		authorIDs[a.ID] = struct{}{}
		// 第i个作者绑定第i个用户
		require.NotNil(t, a.UserID)
	}
	bookIDs := make(map[uint]struct{})
	usedISBN := make(map[string]struct{})
	for _, b := range ds.Books {
		bookIDs[b.ID] = struct{}{}
		_, ok := authorIDs[b.AuthorID]
		assert.True(t, ok, "图书%d引用了不存在的作者%d", b.ID, b.AuthorID)

		// ISBN全局唯一且为13位
		assert.Len(t, b.ISBN, 13)
		_, dup := usedISBN[b.ISBN]
		assert.False(t, dup, "ISBN重复: %s", b.ISBN)
		usedISBN[b.ISBN] = struct{}{}
	}
	for _, bc := range ds.BookCategories {
		_, ok := bookIDs[bc.BookID]
		assert.True(t, ok)
	}
	for _, rv := range ds.Reviews {
		_, ok := bookIDs[rv.BookID]
		assert.True(t, ok)
		assert.GreaterOrEqual(t, rv.Rating, 1)
		assert.LessOrEqual(t, rv.Rating, 5)
	}
}

func TestGenerateOrders(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	ds, err := Generate(rng, testNow(), Counts{Authors: 5, Books: 30, Orders: 100})
	require.NoError(t, err)

	prices := make(map[uint]int64, len(ds.Books))
	for _, b := range ds.Books {
		prices[b.ID] = b.Price
	}

	statusSeen := make(map[order.OrderStatus]int)
	for _, o := range ds.Orders {
		statusSeen[o.Status]++
		assert.True(t, o.Status.Valid())
		assert.NotEmpty(t, o.Items)

		// 总金额缓存与明细求和一致
		assert.Equal(t, o.CalculateTotal(), o.TotalAmount)

		for _, item := range o.Items {
			assert.Greater(t, item.Quantity, 0)
			// 折扣价钳制在[1, 定价]
			assert.GreaterOrEqual(t, item.Price, int64(1))
			assert.LessOrEqual(t, item.Price, prices[item.BookID])
		}

		// 订单分布在now之前180天内
		assert.False(t, o.OrderDate.After(testNow()))
		assert.True(t, o.OrderDate.After(testNow().AddDate(0, 0, -181)))
	}

	// 100单的规模下三种状态都应出现,completed占多数
	assert.Greater(t, statusSeen[order.StatusCompleted], statusSeen[order.StatusPending])
	assert.Greater(t, statusSeen[order.StatusCompleted], statusSeen[order.StatusCancelled])
}

func TestGeneratePasswordHash(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ds, err := Generate(rng, testNow(), Counts{Authors: 2, Books: 2, Orders: 1})
	require.NoError(t, err)

	// 所有测试用户共用同一密码
	for _, u := range ds.Users {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("testpass123")))
	}
}

func TestDiscountPrice(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := discountPrice(rng, 1000)
		assert.GreaterOrEqual(t, p, int64(800))
		assert.LessOrEqual(t, p, int64(1000))
	}

	// 低价图书的折扣价不会跌破1分
	for i := 0; i < 100; i++ {
		p := discountPrice(rng, 1)
		assert.Equal(t, int64(1), p)
	}
}
