package models

// Author 作者模型
type Author struct {
	ID    uint   `gorm:"primaryKey" json:"author_id"`
	Name  string `gorm:"type:varchar(255);not null;index;comment:作者名" json:"author_name"`
	Photo string `gorm:"type:varchar(255);comment:作者照片路径" json:"author_photo,omitempty"`

	// 关联关系
	Books []Book `gorm:"many2many:book_authors" json:"books,omitempty"`
}

// TableName 指定表名
func (Author) TableName() string {
	return "authors"
}
