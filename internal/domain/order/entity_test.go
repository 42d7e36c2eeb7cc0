package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	orderDate := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	items := []OrderItem{
		{BookID: 1, Quantity: 2, Price: 1500},
		{BookID: 2, Quantity: 1, Price: 5000},
	}

	o, err := NewOrder(7, orderDate, StatusCompleted, "123 Main St", items)
	require.NoError(t, err)

	assert.Equal(t, uint(7), o.CustomerID)
	assert.Equal(t, StatusCompleted, o.Status)
	// 总金额在创建时由明细算出:2*1500 + 1*5000
	assert.Equal(t, int64(8000), o.TotalAmount)
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestNewOrderEmptyItems(t *testing.T) {
	_, err := NewOrder(1, time.Now(), StatusCompleted, "addr", nil)
	assert.ErrorIs(t, err, ErrInvalidOrderItems)
}

func TestNewOrderInvalidQuantity(t *testing.T) {
	items := []OrderItem{{BookID: 1, Quantity: 0, Price: 100}}
	_, err := NewOrder(1, time.Now(), StatusCompleted, "addr", items)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNewOrderInvalidStatus(t *testing.T) {
	items := []OrderItem{{BookID: 1, Quantity: 1, Price: 100}}
	_, err := NewOrder(1, time.Now(), OrderStatus("shipped"), "addr", items)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("done").Valid())
}

func TestCalculateTotal(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{Quantity: 3, Price: 999},
			{Quantity: 1, Price: 1},
		},
	}
	assert.Equal(t, int64(3*999+1), o.CalculateTotal())

	// 缓存值过期时,CalculateTotal仍以明细为准
	o.TotalAmount = 1
	assert.Equal(t, int64(3*999+1), o.CalculateTotal())
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 4, Price: 2500}
	assert.Equal(t, int64(10000), item.Subtotal())
}
