package services

import (
	"errors"
	"fmt"

	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"gorm.io/gorm"
)

// ReviewService 评论服务
// 评论的每一次写入和删除都会同步触发所属书籍的评分重算，
// 客户端收到成功响应时书籍聚合字段一定已经更新完毕
type ReviewService struct {
	ratingService *RatingService
}

// NewReviewService 创建评论服务实例
func NewReviewService() *ReviewService {
	return &ReviewService{
		ratingService: NewRatingService(),
	}
}

// CreateReviewRequest 创建评论请求
type CreateReviewRequest struct {
	UserID     uint   `json:"user" binding:"required"`
	BookID     uint   `json:"book" binding:"required"`
	Rating     int    `json:"rating" binding:"required,gte=1,lte=5"`
	ReviewText string `json:"review_text"`
}

// UpdateReviewRequest 更新评论请求
type UpdateReviewRequest struct {
	Rating     *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	ReviewText *string `json:"review_text"`
}

// CreateReview 创建评论
func (rs *ReviewService) CreateReview(req *CreateReviewRequest) (*models.Review, error) {
	// 1. 校验用户和书籍引用
	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		return nil, utils.NewValidationError("user", "user does not exist")
	}
	var book models.Book
	if err := config.DB.First(&book, req.BookID).Error; err != nil {
		return nil, utils.NewValidationError("book", "book does not exist")
	}

	// 2. 每个用户对同一本书只能有一条评论
	var existing models.Review
	if err := config.DB.Where("user_id = ? AND book_id = ?", req.UserID, req.BookID).
		First(&existing).Error; err == nil {
		return nil, utils.NewValidationError("book", "you have already reviewed this book")
	}

	// 3. 创建评论
	review := models.Review{
		UserID:     req.UserID,
		BookID:     req.BookID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}

	if err := config.DB.Create(&review).Error; err != nil {
		// 并发写可能绕过上面的预检查，唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewValidationError("book", "you have already reviewed this book")
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// 4. 同步重算书籍评分
	if err := rs.ratingService.RecalculateBookRating(req.BookID); err != nil {
		return nil, fmt.Errorf("failed to update book rating: %w", err)
	}

	return &review, nil
}

// UpdateReview 更新评论
func (rs *ReviewService) UpdateReview(reviewID uint, req *UpdateReviewRequest) (*models.Review, error) {
	// 1. 查找评论
	var review models.Review
	if err := config.DB.First(&review, reviewID).Error; err != nil {
		return nil, utils.NewNotFoundError("Review")
	}

	// 2. 构建更新map
	updates := make(map[string]interface{})
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.ReviewText != nil {
		updates["review_text"] = *req.ReviewText
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&review).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}

		// 3. 评分可能变了，同步重算
		if err := rs.ratingService.RecalculateBookRating(review.BookID); err != nil {
			return nil, fmt.Errorf("failed to update book rating: %w", err)
		}
	}

	return &review, nil
}

// DeleteReview 删除评论
func (rs *ReviewService) DeleteReview(reviewID uint) error {
	// 1. 查找评论
	var review models.Review
	if err := config.DB.First(&review, reviewID).Error; err != nil {
		return utils.NewNotFoundError("Review")
	}

	bookID := review.BookID

	// 2. 删除
	if err := config.DB.Delete(&review).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	// 3. 同步重算书籍评分
	if err := rs.ratingService.RecalculateBookRating(bookID); err != nil {
		return fmt.Errorf("failed to update book rating: %w", err)
	}

	return nil
}

// GetReview 获取评论详情
func (rs *ReviewService) GetReview(reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := config.DB.First(&review, reviewID).Error; err != nil {
		return nil, utils.NewNotFoundError("Review")
	}
	return &review, nil
}
