package models

import (
	"time"
)

// 订单状态
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// orderStatuses 合法状态集合
var orderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusConfirmed:  true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// IsValidOrderStatus 校验订单状态取值
func IsValidOrderStatus(status string) bool {
	return orderStatuses[status]
}

// Order 订单模型
type Order struct {
	ID         uint      `gorm:"primaryKey" json:"order_id"`
	UserID     uint      `gorm:"not null;index:idx_orders_user_status" json:"user"`
	OrderDate  time.Time `gorm:"autoCreateTime;index" json:"order_date"`
	TotalPrice float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status     string    `gorm:"type:varchar(15);default:pending;index:idx_orders_user_status" json:"status"`

	// 关联关系（订单删除时级联删除订单项）
	User  *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// CanBeCancelled 只有pending或confirmed状态的订单才允许取消
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// OrderItem 订单项模型
// price是下单那一刻的书价快照，创建后不再跟随书价变动
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"order_item_id"`
	OrderID  uint    `gorm:"not null;index" json:"order"`
	BookID   uint    `gorm:"not null" json:"book"`
	Quantity uint    `gorm:"not null;comment:至少为1" json:"quantity"`
	Price    float64 `gorm:"type:decimal(10,2);not null;comment:下单时的单价快照" json:"price"`

	// 关联关系
	Order *Order `gorm:"foreignKey:OrderID" json:"-"`
	Book  *Book  `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// TotalPrice 该订单项的小计
func (oi *OrderItem) TotalPrice() float64 {
	return float64(oi.Quantity) * oi.Price
}
