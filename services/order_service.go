package services

import (
	"fmt"
	"time"

	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/redis/go-redis/v9"
)

// OrderService 订单服务
type OrderService struct{}

// NewOrderService 创建订单服务实例
func NewOrderService() *OrderService {
	return &OrderService{}
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	UserID     uint    `json:"user" binding:"required"`
	TotalPrice float64 `json:"total_price" binding:"required,gt=0"`
	Status     string  `json:"status" binding:"omitempty"`
}

// UpdateOrderRequest 更新订单请求
type UpdateOrderRequest struct {
	TotalPrice *float64 `json:"total_price"`
	Status     string   `json:"status"`
}

// CreateOrderItemRequest 创建订单项请求
// price可省略，省略时取下单那一刻的书价作为快照
type CreateOrderItemRequest struct {
	OrderID  uint     `json:"order" binding:"required"`
	BookID   uint     `json:"book" binding:"required"`
	Quantity uint     `json:"quantity" binding:"required,gte=1"`
	Price    *float64 `json:"price"`
}

// UpdateOrderItemRequest 更新订单项请求
// price一经写入即为历史快照，不接受修改
type UpdateOrderItemRequest struct {
	Quantity *uint `json:"quantity" binding:"omitempty,gte=1"`
}

// ==================== 订单 ====================

// CreateOrder 创建订单
func (os *OrderService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	// 1. 校验下单用户
	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		return nil, utils.NewValidationError("user", "user does not exist")
	}

	// 2. 校验状态取值
	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	if !models.IsValidOrderStatus(status) {
		return nil, utils.NewValidationError("status", "invalid order status")
	}

	// 3. 创建订单
	order := models.Order{
		UserID:     req.UserID,
		TotalPrice: req.TotalPrice,
		Status:     status,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	go recordOrderEvent("order_created", order.ID, order.Status)

	return &order, nil
}

// UpdateOrder 更新订单（履约工作流推进状态）
// 取消只允许从pending或confirmed状态发起
func (os *OrderService) UpdateOrder(orderID uint, req *UpdateOrderRequest) (*models.Order, error) {
	// 1. 查找订单
	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		return nil, utils.NewNotFoundError("Order")
	}

	updates := make(map[string]interface{})

	// 2. 状态变更校验
	if req.Status != "" && req.Status != order.Status {
		if !models.IsValidOrderStatus(req.Status) {
			return nil, utils.NewValidationError("status", "invalid order status")
		}
		if req.Status == models.OrderStatusCancelled && !order.CanBeCancelled() {
			return nil, utils.NewValidationError("status",
				"order can only be cancelled while pending or confirmed")
		}
		updates["status"] = req.Status
	}

	// 3. 总价校验
	if req.TotalPrice != nil {
		if *req.TotalPrice <= 0 {
			return nil, utils.NewValidationError("total_price", "total_price must be greater than 0")
		}
		updates["total_price"] = *req.TotalPrice
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&order).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		if newStatus, ok := updates["status"]; ok {
			go recordOrderEvent("order_status_changed", orderID, newStatus.(string))
		}
	}

	return &order, nil
}

// DeleteOrder 删除订单及其全部订单项
func (os *OrderService) DeleteOrder(orderID uint) error {
	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		return utils.NewNotFoundError("Order")
	}

	// 级联删除订单项
	if err := config.DB.Select("Items").Delete(&order).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	go recordOrderEvent("order_deleted", orderID, order.Status)

	return nil
}

// GetOrder 获取订单详情
func (os *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := config.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, utils.NewNotFoundError("Order")
	}
	return &order, nil
}

// ==================== 订单项 ====================

// CreateOrderItem 创建订单项
// 调用方没给price时，取书的当前价格写入；给了就原样使用（支持折扣/锁价）
func (os *OrderService) CreateOrderItem(req *CreateOrderItemRequest) (*models.OrderItem, error) {
	// 1. 校验订单引用
	var order models.Order
	if err := config.DB.First(&order, req.OrderID).Error; err != nil {
		return nil, utils.NewValidationError("order", "order does not exist")
	}

	// 2. 校验书籍引用和库存状态
	var book models.Book
	if err := config.DB.First(&book, req.BookID).Error; err != nil {
		return nil, utils.NewValidationError("book", "book does not exist")
	}
	if !book.IsAvailable() {
		return nil, utils.NewValidationError("book", "book is out of stock")
	}

	// 3. 单价：显式传入优先，否则快照当前书价
	var price float64
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, utils.NewValidationError("price", "price must be greater than 0")
		}
		price = *req.Price
	} else {
		price = book.Price
	}

	// 4. 创建订单项
	item := models.OrderItem{
		OrderID:  req.OrderID,
		BookID:   req.BookID,
		Quantity: req.Quantity,
		Price:    price,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}

	go recordOrderItemEvent(&item)

	return &item, nil
}

// UpdateOrderItem 更新订单项（只允许改数量，价格是不可变的历史快照）
func (os *OrderService) UpdateOrderItem(itemID uint, req *UpdateOrderItemRequest) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		return nil, utils.NewNotFoundError("Order item")
	}

	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, utils.NewValidationError("quantity", "quantity must be at least 1")
		}
		if err := config.DB.Model(&item).Update("quantity", *req.Quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update order item: %w", err)
		}
	}

	return &item, nil
}

// DeleteOrderItem 删除订单项
func (os *OrderService) DeleteOrderItem(itemID uint) error {
	var item models.OrderItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		return utils.NewNotFoundError("Order item")
	}

	if err := config.DB.Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	return nil
}

// GetOrderItem 获取订单项详情
func (os *OrderService) GetOrderItem(itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		return nil, utils.NewNotFoundError("Order item")
	}
	return &item, nil
}

// recordOrderItemEvent 记录订单项创建事件到Redis Stream
func recordOrderItemEvent(item *models.OrderItem) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.XAdd(redisCtx, &redis.XAddArgs{
		Stream: "order_events",
		Values: map[string]interface{}{
			"event":     "order_item_added",
			"order_id":  item.OrderID,
			"book_id":   item.BookID,
			"quantity":  item.Quantity,
			"subtotal":  item.TotalPrice(),
			"timestamp": time.Now().Unix(),
		},
	})
}

// recordOrderEvent 记录订单事件到Redis Stream
func recordOrderEvent(event string, orderID uint, status string) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.XAdd(redisCtx, &redis.XAddArgs{
		Stream: "order_events",
		Values: map[string]interface{}{
			"event":     event,
			"order_id":  orderID,
			"status":    status,
			"timestamp": time.Now().Unix(),
		},
	})
}
