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

// ReviewController 评论控制器
type ReviewController struct {
	reviewService *services.ReviewService
}

// NewReviewController 创建评论控制器实例
func NewReviewController() *ReviewController {
	return &ReviewController{
		reviewService: services.NewReviewService(),
	}
}

// GetReviews 获取评论列表
// @Summary 获取评论列表
// @Tags reviews
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Review
// @Router /review [get]
func (rc *ReviewController) GetReviews(c *gin.Context) {
	var reviews []models.Review
	query := config.DB.Order("created_at DESC")

	// 支持按书籍或用户过滤
	if bookID := c.Query("book"); bookID != "" {
		query = query.Where("book_id = ?", bookID)
	}
	if userID := c.Query("user"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Find(&reviews).Error; err != nil {
		middleware.ErrorLogger("failed to get reviews", zap.Error(err))
		utils.InternalError(c, "failed to get reviews")
		return
	}

	utils.OK(c, reviews)
}

// CreateReview 创建评论
// @Summary 创建评论
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body services.CreateReviewRequest true "评论信息"
// @Success 201 {object} models.Review
// @Router /review [post]
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	review, err := rc.reviewService.CreateReview(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Created(c, review)
}

// GetReview 获取评论详情
// @Summary 获取评论详情
// @Tags reviews
// @Produce json
// @Security Bearer
// @Param id path int true "评论ID"
// @Success 200 {object} models.Review
// @Router /review/{id} [get]
func (rc *ReviewController) GetReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Review")
		return
	}

	review, err := rc.reviewService.GetReview(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, review)
}

// UpdateReview 更新评论
// @Summary 更新评论
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "评论ID"
// @Param request body services.UpdateReviewRequest true "评论信息"
// @Success 200 {object} models.Review
// @Router /review/{id} [put]
func (rc *ReviewController) UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Review")
		return
	}

	var req services.UpdateReviewRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	review, err := rc.reviewService.UpdateReview(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, review)
}

// DeleteReview 删除评论
// @Summary 删除评论
// @Tags reviews
// @Produce json
// @Security Bearer
// @Param id path int true "评论ID"
// @Success 204 {object} map[string]interface{}
// @Router /review/{id} [delete]
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Review")
		return
	}

	if err := rc.reviewService.DeleteReview(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Deleted(c, "Review")
}
