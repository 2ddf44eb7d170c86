package services

import (
	"errors"
	"math"

	"bookstore_go/config"
	"bookstore_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingService 评分聚合服务
// books.avg_rating / books.total_reviews 是从reviews派生的冗余字段，
// 评论的每次创建、更新、删除之后都必须同步调用RecalculateBookRating，
// 聚合写入完成后才能向客户端返回成功
type RatingService struct{}

// NewRatingService 创建评分聚合服务实例
func NewRatingService() *RatingService {
	return &RatingService{}
}

// RecalculateBookRating 重算某本书的平均分和评论数
// 幂等：评论集不变时重复执行结果相同
// 书不存在（可能被并发删除）时静默跳过，不算错误
func (rs *RatingService) RecalculateBookRating(bookID uint) error {
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// 行锁串行化同一本书上的并发重算，防止读-改-写互相覆盖
		// sqlite是单写者模型且不支持FOR UPDATE，仅在mysql下加锁
		lookup := tx
		if tx.Dialector.Name() == "mysql" {
			lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var book models.Book
		if err := lookup.First(&book, bookID).Error; err != nil {
			return err
		}

		var ratings []int
		if err := tx.Model(&models.Review{}).
			Where("book_id = ?", bookID).
			Pluck("rating", &ratings).Error; err != nil {
			return err
		}

		return tx.Model(&models.Book{}).Where("id = ?", bookID).
			UpdateColumns(map[string]interface{}{
				"avg_rating":    AverageRating(ratings),
				"total_reviews": len(ratings),
			}).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// 聚合字段变了，书籍缓存作废
	// 必须在返回前完成：客户端收到成功响应后立刻读书，不能命中旧缓存
	clearBookCaches(bookID)

	return nil
}

// AverageRating 计算评分均值，保留两位小数；空集返回0.00
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0.0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RoundRating(float64(sum) / float64(len(ratings)))
}

// RoundRating 四舍五入到两位小数（对应DECIMAL(3,2)存储精度）
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
