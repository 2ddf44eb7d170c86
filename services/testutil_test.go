package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"bookstore_go/config"
	"bookstore_go/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB 打开独立的内存数据库并指向全局config.DB
// 每个测试用例独立建库，互不污染
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := config.MigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.DB = db
	config.RedisClient = nil // 降级模式：跳过缓存、限流、事件流

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		config.DB = nil
	})

	return db
}

// createTestUser 创建测试用户
func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "password123",
		Role:      models.RoleUser,
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

// createTestBook 创建测试书籍
func createTestBook(t *testing.T, db *gorm.DB, isbn string, price float64) *models.Book {
	t.Helper()

	book := models.Book{
		ISBN:         isbn,
		Title:        "Test Book " + isbn,
		Price:        price,
		Availability: models.AvailabilityInStock,
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	return &book
}

// createTestReview 直接插入一条评论（绕过服务层）
func createTestReview(t *testing.T, db *gorm.DB, userID, bookID uint, rating int) *models.Review {
	t.Helper()

	review := models.Review{
		UserID: userID,
		BookID: bookID,
		Rating: rating,
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to create test review: %v", err)
	}
	return &review
}
