package models

import (
	"time"
)

// 书籍库存状态
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
)

// Book 书籍模型
// avg_rating和total_reviews是从reviews表派生的冗余字段，
// 由services.RatingService在评论变更后同步重算，不允许调用方直接写入
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"book_id"`
	ISBN            string    `gorm:"type:varchar(13);uniqueIndex;not null" json:"ISBN"`
	Title           string    `gorm:"type:varchar(50);not null;index" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	PublicationDate time.Time `gorm:"type:date" json:"publication_date"`
	BookCoverPhoto  string    `gorm:"type:varchar(255);comment:封面图片路径" json:"book_cover_photo,omitempty"`
	Availability    string    `gorm:"type:varchar(20);default:in_stock;comment:in_stock或out_of_stock" json:"availability"`
	CategoryID      *uint     `gorm:"index;comment:分类删除时置空" json:"category"`
	AvgRating       float64   `gorm:"type:decimal(3,2);default:0.00;index;comment:评论均分,派生字段" json:"avg_rating"`
	TotalReviews    uint      `gorm:"default:0;comment:评论总数,派生字段" json:"total_reviews"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联关系
	Authors  []Author  `gorm:"many2many:book_authors" json:"authors,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	Reviews  []Review  `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

// IsAvailable 书籍是否可购买
func (b *Book) IsAvailable() bool {
	return b.Availability == AvailabilityInStock
}

// BookListItem 列表视图的精简投影（列表页不需要完整记录）
type BookListItem struct {
	ID             uint     `json:"book_id"`
	Title          string   `json:"title"`
	Authors        []Author `json:"authors"`
	Price          float64  `json:"price"`
	BookCoverPhoto string   `json:"book_cover_photo,omitempty"`
}

// ToListItem 将Book转换为列表投影
func (b *Book) ToListItem() BookListItem {
	return BookListItem{
		ID:             b.ID,
		Title:          b.Title,
		Authors:        b.Authors,
		Price:          b.Price,
		BookCoverPhoto: b.BookCoverPhoto,
	}
}
