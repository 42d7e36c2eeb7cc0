package order

import (
	"time"
)

// OrderStatus 订单状态
// 使用字符串存储(pending/completed/cancelled),
// 与报表的过滤条件(仅统计completed)保持直观对应
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"   // 待处理
	StatusCompleted OrderStatus = "completed" // 已完成
	StatusCancelled OrderStatus = "cancelled" // 已取消
)

// Valid 判断是否为合法状态值
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,OrderItem是子实体
// 2. TotalAmount是冗余字段,由数据填充/明细变更后重算维护,
//    数据库层不做约束;需要精确金额时必须调用CalculateTotal重新求和,
//    不能盲目信任缓存值
type Order struct {
	ID              uint
	CustomerID      uint        // 买家用户ID
	OrderDate       time.Time   // 下单时间
	Status          OrderStatus // 订单状态
	TotalAmount     int64       // 订单总金额(分),冗余字段
	ShippingAddress string
	Items           []OrderItem // 订单明细(聚合内的子实体)
}

// OrderItem 订单明细项
// Price记录下单时的单价快照(可能低于图书当前定价,如折扣),
// 小计=Quantity*Price
type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Quantity int   // 购买数量,必须>0
	Price    int64 // 下单时单价(分)
}

// Subtotal 明细小计(分)
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.Price
}

// NewOrder 创建新订单(工厂方法)
// 业务规则:
// 1. 明细不能为空,每项数量必须>0
// 2. TotalAmount由明细实时计算,保证创建时缓存值一致
func NewOrder(customerID uint, orderDate time.Time, status OrderStatus, shippingAddress string, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o := &Order{
		CustomerID:      customerID,
		OrderDate:       orderDate,
		Status:          status,
		ShippingAddress: shippingAddress,
		Items:           items,
	}
	o.TotalAmount = o.CalculateTotal()
	return o, nil
}

// CalculateTotal 根据明细实时计算订单总金额(分)
// TotalAmount缓存可能过期,对金额敏感的调用方应使用本方法
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.CustomerID == userID
}
