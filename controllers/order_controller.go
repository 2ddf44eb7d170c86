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

// OrderController 订单控制器
type OrderController struct {
	orderService *services.OrderService
}

// NewOrderController 创建订单控制器实例
func NewOrderController() *OrderController {
	return &OrderController{
		orderService: services.NewOrderService(),
	}
}

// GetOrders 获取订单列表
// @Summary 获取订单列表
// @Tags orders
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Order
// @Router /order [get]
func (oc *OrderController) GetOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items").Order("order_date DESC")

	// 支持按用户或状态过滤
	if userID := c.Query("user"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&orders).Error; err != nil {
		middleware.ErrorLogger("failed to get orders", zap.Error(err))
		utils.InternalError(c, "failed to get orders")
		return
	}

	utils.OK(c, orders)
}

// CreateOrder 创建订单
// @Summary 创建订单
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body services.CreateOrderRequest true "订单信息"
// @Success 201 {object} models.Order
// @Router /order [post]
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	order, err := oc.orderService.CreateOrder(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Created(c, order)
}

// GetOrder 获取订单详情
// @Summary 获取订单详情
// @Tags orders
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} models.Order
// @Router /order/{id} [get]
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Order")
		return
	}

	order, err := oc.orderService.GetOrder(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, order)
}

// UpdateOrder 更新订单
// @Summary 更新订单
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Param request body services.UpdateOrderRequest true "订单信息"
// @Success 200 {object} models.Order
// @Router /order/{id} [put]
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Order")
		return
	}

	var req services.UpdateOrderRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	order, err := oc.orderService.UpdateOrder(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, order)
}

// DeleteOrder 删除订单
// @Summary 删除订单
// @Tags orders
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 204 {object} map[string]interface{}
// @Router /order/{id} [delete]
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Order")
		return
	}

	if err := oc.orderService.DeleteOrder(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Deleted(c, "Order")
}
