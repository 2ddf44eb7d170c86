package models

import (
	"time"
)

// Review 书籍评论模型
// (user, book)组合唯一：每个用户对同一本书只能有一条评论
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"review_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"user"`
	BookID     uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book;index:idx_reviews_book_rating" json:"book"`
	Rating     int       `gorm:"not null;index:idx_reviews_book_rating;comment:1到5分" json:"rating"`
	ReviewText string    `gorm:"type:text" json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联关系
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
