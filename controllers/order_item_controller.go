package controllers

import (
	"bookstore_go/config"
	"bookstore_go/middleware"
	"bookstore_go/models"
	"bookstore_go/services"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderItemController 订单项控制器
type OrderItemController struct {
	orderService *services.OrderService
}

// NewOrderItemController 创建订单项控制器实例
func NewOrderItemController() *OrderItemController {
	return &OrderItemController{
		orderService: services.NewOrderService(),
	}
}

// GetOrderItems 获取订单项列表
// @Summary 获取订单项列表
// @Tags order-items
// @Produce json
// @Security Bearer
// @Success 200 {array} models.OrderItem
// @Router /orderItems [get]
func (oic *OrderItemController) GetOrderItems(c *gin.Context) {
	var items []models.OrderItem
	query := config.DB.Order("id")

	// 支持按订单过滤
	if orderID := c.Query("order"); orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}

	if err := query.Find(&items).Error; err != nil {
		middleware.ErrorLogger("failed to get order items", zap.Error(err))
		utils.InternalError(c, "failed to get order items")
		return
	}

	utils.OK(c, items)
}

// CreateOrderItem 创建订单项
// 未提供价格时取书籍当前价格快照，之后书籍调价不影响已生成的订单项
// @Summary 创建订单项
// @Tags order-items
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body services.CreateOrderItemRequest true "订单项信息"
// @Success 201 {object} models.OrderItem
// @Router /orderItems [post]
func (oic *OrderItemController) CreateOrderItem(c *gin.Context) {
	var req services.CreateOrderItemRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	item, err := oic.orderService.CreateOrderItem(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Created(c, item)
}

// GetOrderItem 获取订单项详情
// @Summary 获取订单项详情
// @Tags order-items
// @Produce json
// @Security Bearer
// @Param id path int true "订单项ID"
// @Success 200 {object} models.OrderItem
// @Router /orderItems/{id} [get]
func (oic *OrderItemController) GetOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Order item")
		return
	}

	item, err := oic.orderService.GetOrderItem(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, item)
}

// UpdateOrderItem 更新订单项
// @Summary 更新订单项
// @Tags order-items
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "订单项ID"
// @Param request body services.UpdateOrderItemRequest true "订单项信息"
// @Success 200 {object} models.OrderItem
// @Router /orderItems/{id} [put]
func (oic *OrderItemController) UpdateOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Order item")
		return
	}

	var req services.UpdateOrderItemRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	item, err := oic.orderService.UpdateOrderItem(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, item)
}

// DeleteOrderItem 删除订单项
// @Summary 删除订单项
// @Tags order-items
// @Produce json
// @Security Bearer
// @Param id path int true "订单项ID"
// @Success 204 {object} map[string]interface{}
// @Router /orderItems/{id} [delete]
func (oic *OrderItemController) DeleteOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Order item")
		return
	}

	if err := oic.orderService.DeleteOrderItem(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Deleted(c, "Order item")
}
