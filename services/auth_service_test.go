package services

import (
	"strings"
	"testing"

	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	as := NewAuthService()

	user, err := as.Register(&RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "secret-password",
		PasswordConfirm: "secret-password",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	// 密码必须以加密形式落库
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"))
	assert.True(t, stored.CheckPassword("secret-password"))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	setupTestDB(t)
	as := NewAuthService()

	_, err := as.Register(&RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada2@example.com",
		Password:        "secret-password",
		PasswordConfirm: "different-password",
	})
	require.Error(t, err)

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	as := NewAuthService()

	createTestUser(t, db, "taken@example.com")

	_, err := as.Register(&RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "taken@example.com",
		Password:        "secret-password",
		PasswordConfirm: "secret-password",
	})
	require.Error(t, err)

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "email")
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	as := NewAuthService()

	createTestUser(t, db, "login@example.com") // 密码 password123

	user, pair, err := as.Login(&LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "login@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	db := setupTestDB(t)
	as := NewAuthService()

	createTestUser(t, db, "exists@example.com")

	// 邮箱不存在和密码错误必须返回同一条消息，防止邮箱枚举
	_, _, errNoUser := as.Login(&LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	}, "127.0.0.1")
	require.Error(t, errNoUser)

	_, _, errBadPass := as.Login(&LoginRequest{
		Email:    "exists@example.com",
		Password: "wrong-password",
	}, "127.0.0.1")
	require.Error(t, errBadPass)

	assert.Equal(t, errNoUser.Error(), errBadPass.Error())
	assert.Equal(t, "invalid email or password", errNoUser.Error())
}

func TestLogin_DisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	as := NewAuthService()

	user := createTestUser(t, db, "disabled@example.com")
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err := as.Login(&LoginRequest{
		Email:    "disabled@example.com",
		Password: "password123",
	}, "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "user account is disabled", err.Error())
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	db := setupTestDB(t)
	as := NewAuthService()

	createTestUser(t, db, "refresh@example.com")
	_, pair, err := as.Login(&LoginRequest{
		Email:    "refresh@example.com",
		Password: "password123",
	}, "127.0.0.1")
	require.NoError(t, err)

	// 刷新端点只接受refresh类型令牌
	_, err = as.RefreshToken(pair.AccessToken)
	assert.Error(t, err)

	newPair, err := as.RefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEmpty(t, newPair.RefreshToken)
}
