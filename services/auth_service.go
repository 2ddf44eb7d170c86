package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/redis/go-redis/v9"
)

var redisCtx = context.Background()

// AuthConfig 认证配置
type AuthConfig struct {
	MaxLoginAttempts   int           // 最大登录失败次数
	LoginBlockDuration time.Duration // 登录限流窗口
}

// AuthService 认证服务
type AuthService struct {
	jwtService *config.JWTService
	authConfig *AuthConfig
}

// NewAuthService 创建认证服务实例
func NewAuthService() *AuthService {
	return &AuthService{
		jwtService: config.GetJWTService(),
		authConfig: &AuthConfig{
			MaxLoginAttempts:   5,
			LoginBlockDuration: 15 * time.Minute,
		},
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=20"`
	LastName        string `json:"last_name" binding:"required,max=20"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=100"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummary 登录响应里的用户摘要
type UserSummary struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// ==================== 注册 ====================

// Register 用户注册
func (as *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	// 1. 两次密码必须一致
	if req.Password != req.PasswordConfirm {
		return nil, utils.NewValidationError("password", "password do not match")
	}

	// 2. 检查邮箱是否已存在
	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, utils.NewValidationError("email", "email already exists")
	}

	// 3. 创建用户，明文密码由User.BeforeSave钩子加密
	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      models.RoleUser,
		IsActive:  true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 4. 记录注册事件
	go func() {
		if config.RedisClient != nil {
			config.RedisClient.XAdd(redisCtx, &redis.XAddArgs{
				Stream: "user_events",
				Values: map[string]interface{}{
					"event":     "register",
					"user_id":   user.ID,
					"email":     user.Email,
					"timestamp": time.Now().Unix(),
				},
			})
		}
	}()

	return &user, nil
}

// ==================== 登录 ====================

// Login 用户登录，成功返回访问/刷新令牌对
// 失败原因（邮箱不存在/密码错误）统一返回同一条消息，避免邮箱枚举
func (as *AuthService) Login(req *LoginRequest, clientIP string) (*models.User, *config.TokenPair, error) {
	// 1. 登录频率限制（基于邮箱+IP）
	if config.RedisClient != nil {
		limitKey := fmt.Sprintf("login:limit:%s:%s", req.Email, clientIP)
		attempts, _ := config.RedisClient.Get(redisCtx, limitKey).Int64()
		if attempts >= int64(as.authConfig.MaxLoginAttempts) {
			return nil, nil, errors.New("too many login attempts, please try again later")
		}
	}

	// 2. 查找用户
	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		as.recordLoginFailure(req.Email, clientIP)
		return nil, nil, errors.New("invalid email or password")
	}

	// 3. 验证密码
	if !user.CheckPassword(req.Password) {
		as.recordLoginFailure(req.Email, clientIP)
		return nil, nil, errors.New("invalid email or password")
	}

	// 4. 检查账号状态
	if !user.IsActive {
		return nil, nil, errors.New("user account is disabled")
	}

	// 5. 生成令牌对
	pair, err := as.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 6. 清除失败计数，异步记录登录日志
	if config.RedisClient != nil {
		limitKey := fmt.Sprintf("login:limit:%s:%s", req.Email, clientIP)
		config.RedisClient.Del(redisCtx, limitKey)
	}
	go as.recordLoginLog(&user, clientIP)

	return &user, pair, nil
}

// ==================== Token ====================

// RefreshToken 用刷新令牌换新令牌对，旧刷新令牌进入黑名单
func (as *AuthService) RefreshToken(refreshToken string) (*config.TokenPair, error) {
	// 1. 检查是否已被吊销
	if as.IsTokenBlacklisted(refreshToken) {
		return nil, errors.New("token has been revoked")
	}

	// 2. 验证刷新令牌
	claims, err := as.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// 3. 旧令牌加入黑名单
	as.blacklistToken(refreshToken, claims.ExpiresAt.Time)

	// 4. 签发新令牌对
	return as.jwtService.GenerateTokenPair(claims.UserID, claims.Email, claims.Role)
}

// Logout 用户登出，当前令牌加入黑名单
func (as *AuthService) Logout(tokenString string) error {
	claims, err := as.jwtService.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	as.blacklistToken(tokenString, claims.ExpiresAt.Time)
	return nil
}

// IsTokenBlacklisted 令牌是否已被吊销
func (as *AuthService) IsTokenBlacklisted(tokenString string) bool {
	if config.RedisClient == nil {
		return false
	}
	blacklistKey := fmt.Sprintf("token:blacklist:%s", tokenString)
	exists, _ := config.RedisClient.Exists(redisCtx, blacklistKey).Result()
	return exists > 0
}

// blacklistToken 将令牌按剩余有效期写入黑名单
func (as *AuthService) blacklistToken(tokenString string, expiresAt time.Time) {
	if config.RedisClient == nil {
		return
	}
	expiration := time.Until(expiresAt)
	if expiration > 0 {
		blacklistKey := fmt.Sprintf("token:blacklist:%s", tokenString)
		config.RedisClient.Set(redisCtx, blacklistKey, "1", expiration)
	}
}

// ==================== 登录日志 ====================

// recordLoginFailure 记录登录失败并累加限流计数
func (as *AuthService) recordLoginFailure(email, ip string) {
	if config.RedisClient == nil {
		return
	}
	limitKey := fmt.Sprintf("login:limit:%s:%s", email, ip)
	config.RedisClient.Incr(redisCtx, limitKey)
	config.RedisClient.Expire(redisCtx, limitKey, as.authConfig.LoginBlockDuration)

	config.RedisClient.XAdd(redisCtx, &redis.XAddArgs{
		Stream: "login_failures",
		Values: map[string]interface{}{
			"email":     email,
			"ip":        ip,
			"timestamp": time.Now().Unix(),
		},
	})
}

// recordLoginLog 记录成功登录日志
func (as *AuthService) recordLoginLog(user *models.User, ip string) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.XAdd(redisCtx, &redis.XAddArgs{
		Stream: "login_logs",
		Values: map[string]interface{}{
			"user_id":   user.ID,
			"email":     user.Email,
			"ip":        ip,
			"timestamp": time.Now().Unix(),
		},
	})
}

// ToUserSummary 转换为登录响应的用户摘要
func ToUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
