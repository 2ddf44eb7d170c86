package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BookService 书籍服务
type BookService struct{}

// NewBookService 创建书籍服务实例
func NewBookService() *BookService {
	return &BookService{}
}

// CreateBookRequest 创建书籍请求
type CreateBookRequest struct {
	ISBN            string  `json:"ISBN" binding:"required,min=10,max=13"`
	Title           string  `json:"title" binding:"required,max=50"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	PublicationDate string  `json:"publication_date" binding:"required"`
	BookCoverPhoto  string  `json:"book_cover_photo"`
	Availability    string  `json:"availability" binding:"omitempty,oneof=in_stock out_of_stock"`
	CategoryID      *uint   `json:"category"`
	AuthorIDs       []uint  `json:"authors"`
}

// UpdateBookRequest 更新书籍请求
type UpdateBookRequest struct {
	ISBN            string   `json:"ISBN" binding:"omitempty,min=10,max=13"`
	Title           string   `json:"title" binding:"omitempty,max=50"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price" binding:"omitempty"`
	PublicationDate string   `json:"publication_date"`
	BookCoverPhoto  string   `json:"book_cover_photo"`
	Availability    string   `json:"availability" binding:"omitempty,oneof=in_stock out_of_stock"`
	CategoryID      *uint    `json:"category"`
	AuthorIDs       []uint   `json:"authors"`
}

// BookFilters 书籍列表筛选条件
type BookFilters struct {
	Category     uint
	Author       string
	MinPrice     float64
	MaxPrice     float64
	Availability string
}

// ==================== CRUD操作 ====================

// CreateBook 创建书籍
func (bs *BookService) CreateBook(req *CreateBookRequest) (*models.Book, error) {
	// 1. 检查ISBN是否已存在
	var existing models.Book
	if err := config.DB.Where("isbn = ?", req.ISBN).First(&existing).Error; err == nil {
		return nil, utils.NewValidationError("ISBN", "book with this ISBN already exists")
	}

	// 2. 解析出版日期
	pubDate, err := time.Parse("2006-01-02", req.PublicationDate)
	if err != nil {
		return nil, utils.NewValidationError("publication_date", "must be a date in YYYY-MM-DD format")
	}

	// 3. 校验分类引用
	if req.CategoryID != nil {
		var category models.Category
		if err := config.DB.First(&category, *req.CategoryID).Error; err != nil {
			return nil, utils.NewValidationError("category", "category does not exist")
		}
	}

	availability := req.Availability
	if availability == "" {
		availability = models.AvailabilityInStock
	}

	// 4. 创建书籍
	book := models.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		PublicationDate: pubDate,
		BookCoverPhoto:  req.BookCoverPhoto,
		Availability:    availability,
		CategoryID:      req.CategoryID,
	}

	if err := config.DB.Create(&book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	// 5. 绑定作者
	if len(req.AuthorIDs) > 0 {
		if err := bs.replaceAuthors(&book, req.AuthorIDs); err != nil {
			return nil, err
		}
	}

	// 6. 清缓存（同步，响应返回前生效），事件异步记录
	clearBookCaches(book.ID)
	go recordBookEvent("book_created", book.ID, book.Title)

	return bs.GetBook(book.ID)
}

// UpdateBook 更新书籍
func (bs *BookService) UpdateBook(bookID uint, req *UpdateBookRequest) (*models.Book, error) {
	// 1. 查找书籍
	var book models.Book
	if err := config.DB.First(&book, bookID).Error; err != nil {
		return nil, utils.NewNotFoundError("Book")
	}

	// 2. 修改ISBN时检查重复
	if req.ISBN != "" && req.ISBN != book.ISBN {
		var existing models.Book
		if err := config.DB.Where("isbn = ? AND id != ?", req.ISBN, bookID).First(&existing).Error; err == nil {
			return nil, utils.NewValidationError("ISBN", "book with this ISBN already exists")
		}
	}

	// 3. 构建更新map（avg_rating/total_reviews是派生字段，永不接受外部写入）
	updates := make(map[string]interface{})
	if req.ISBN != "" {
		updates["isbn"] = req.ISBN
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, utils.NewValidationError("price", "price must be greater than 0")
		}
		updates["price"] = *req.Price
	}
	if req.PublicationDate != "" {
		pubDate, err := time.Parse("2006-01-02", req.PublicationDate)
		if err != nil {
			return nil, utils.NewValidationError("publication_date", "must be a date in YYYY-MM-DD format")
		}
		updates["publication_date"] = pubDate
	}
	if req.BookCoverPhoto != "" {
		updates["book_cover_photo"] = req.BookCoverPhoto
	}
	if req.Availability != "" {
		updates["availability"] = req.Availability
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := config.DB.First(&category, *req.CategoryID).Error; err != nil {
			return nil, utils.NewValidationError("category", "category does not exist")
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&book).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
	}

	// 4. 替换作者绑定
	if req.AuthorIDs != nil {
		if err := bs.replaceAuthors(&book, req.AuthorIDs); err != nil {
			return nil, err
		}
	}

	// 先让旧缓存失效，随后的GetBook才能读到并回填更新后的记录
	clearBookCaches(bookID)

	return bs.GetBook(bookID)
}

// DeleteBook 删除书籍
func (bs *BookService) DeleteBook(bookID uint) error {
	var book models.Book
	if err := config.DB.First(&book, bookID).Error; err != nil {
		return utils.NewNotFoundError("Book")
	}

	// 清除作者关联，级联删除评论
	if err := config.DB.Model(&book).Association("Authors").Clear(); err != nil {
		return fmt.Errorf("failed to detach authors: %w", err)
	}
	if err := config.DB.Select("Reviews").Delete(&book).Error; err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	clearBookCaches(bookID)
	go recordBookEvent("book_deleted", bookID, book.Title)

	return nil
}

// ==================== 查询方法 ====================

// GetBook 获取书籍详情（带Redis缓存）
func (bs *BookService) GetBook(bookID uint) (*models.Book, error) {
	cacheKey := fmt.Sprintf("book:%d", bookID)

	// 1. 尝试从Redis缓存获取
	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(redisCtx, cacheKey).Result()
		if err == nil {
			var book models.Book
			if json.Unmarshal([]byte(cached), &book) == nil {
				return &book, nil
			}
		}
	}

	// 2. 从数据库查询
	var book models.Book
	if err := config.DB.Preload("Authors").First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Book")
		}
		return nil, err
	}

	// 3. 同步写缓存
	// 异步回填会和并发写操作的失效竞争，把过期记录重新塞回缓存一整个TTL
	if config.RedisClient != nil {
		data, _ := json.Marshal(book)
		config.RedisClient.Set(redisCtx, cacheKey, data, 10*time.Minute)
	}

	return &book, nil
}

// GetBooks 获取书籍列表（分页+筛选）
func (bs *BookService) GetBooks(page, limit int, filters *BookFilters) ([]models.Book, int64, error) {
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Book{})

	if filters != nil {
		if filters.Category > 0 {
			query = query.Where("category_id = ?", filters.Category)
		}
		if filters.Author != "" {
			query = query.
				Joins("JOIN book_authors ON book_authors.book_id = books.id").
				Joins("JOIN authors ON authors.id = book_authors.author_id").
				Where("authors.name LIKE ?", "%"+filters.Author+"%")
		}
		if filters.MinPrice > 0 {
			query = query.Where("price >= ?", filters.MinPrice)
		}
		if filters.MaxPrice > 0 {
			query = query.Where("price <= ?", filters.MaxPrice)
		}
		if filters.Availability != "" {
			query = query.Where("availability = ?", filters.Availability)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var books []models.Book
	if err := query.
		Preload("Authors").
		Order("books.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get books: %w", err)
	}

	return books, total, nil
}

// ==================== 辅助方法 ====================

// replaceAuthors 替换书籍的作者绑定
func (bs *BookService) replaceAuthors(book *models.Book, authorIDs []uint) error {
	var authors []models.Author
	if err := config.DB.Find(&authors, authorIDs).Error; err != nil {
		return fmt.Errorf("failed to load authors: %w", err)
	}
	if len(authors) != len(authorIDs) {
		return utils.NewValidationError("authors", "one or more authors do not exist")
	}
	if err := config.DB.Model(book).Association("Authors").Replace(authors); err != nil {
		return fmt.Errorf("failed to set authors: %w", err)
	}
	return nil
}

// clearBookCaches 清除某本书相关的缓存
func clearBookCaches(bookID uint) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.Del(redisCtx, fmt.Sprintf("book:%d", bookID))
}

// recordBookEvent 记录书籍事件到Redis Stream
func recordBookEvent(event string, bookID uint, title string) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.XAdd(redisCtx, &redis.XAddArgs{
		Stream: "book_events",
		Values: map[string]interface{}{
			"event":     event,
			"book_id":   bookID,
			"title":     title,
			"timestamp": time.Now().Unix(),
		},
	})
}
