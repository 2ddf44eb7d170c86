package models

// Category 书籍分类模型
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"category_id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null;comment:分类名" json:"category_name"`

	// 关联关系
	Books []Book `gorm:"foreignKey:CategoryID" json:"books,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
