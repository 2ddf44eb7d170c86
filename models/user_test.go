package models

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var userTestDBCounter int64

func openUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&userTestDBCounter, 1)
	dsn := fmt.Sprintf("file:user_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestUserBeforeSave_HashesPassword(t *testing.T) {
	db := openUserTestDB(t)

	user := User{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "plaintext-password",
	}
	require.NoError(t, db.Create(&user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotEqual(t, "plaintext-password", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"))
	assert.True(t, stored.CheckPassword("plaintext-password"))
	assert.False(t, stored.CheckPassword("wrong-password"))
}

func TestUserBeforeSave_DoesNotRehash(t *testing.T) {
	db := openUserTestDB(t)

	user := User{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace2@example.com",
		Password:  "plaintext-password",
	}
	require.NoError(t, db.Create(&user).Error)

	hashAfterCreate := user.Password

	// 其它字段更新不会把已有哈希再哈希一次
	user.FirstName = "Amazing Grace"
	require.NoError(t, db.Save(&user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, hashAfterCreate, stored.Password)
	assert.True(t, stored.CheckPassword("plaintext-password"))
}

func TestUserDefaults(t *testing.T) {
	db := openUserTestDB(t)

	user := User{
		FirstName: "Default",
		LastName:  "Values",
		Email:     "defaults@example.com",
		Password:  "plaintext-password",
	}
	require.NoError(t, db.Create(&user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, RoleUser, stored.Role)
	assert.True(t, stored.IsActive)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
	assert.True(t, (&User{Role: "Admin"}).IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.False(t, (&User{Role: ""}).IsAdmin())
}

func TestIsHashedPassword(t *testing.T) {
	assert.True(t, IsHashedPassword("$2a$10$abcdefghijklmnopqrstuv"))
	assert.True(t, IsHashedPassword("$2b$12$abcdefghijklmnopqrstuv"))
	assert.False(t, IsHashedPassword("plaintext"))
	assert.False(t, IsHashedPassword(""))
	assert.False(t, IsHashedPassword("$1$legacy"))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("admin"))
	assert.True(t, IsValidRole("user"))
	assert.True(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}
