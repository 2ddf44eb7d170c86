package controllers

import (
	"net/http"

	"bookstore_go/services"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController 创建认证控制器实例
func NewAuthController() *AuthController {
	return &AuthController{
		authService: services.NewAuthService(),
	}
}

// RefreshRequest 刷新令牌请求结构
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，密码和确认密码必须一致
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "注册信息"
// @Success 201 {object} services.UserSummary
// @Router /register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	user, err := ac.authService.Register(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Created(c, services.ToUserSummary(user))
}

// Login 用户登录
// @Summary 用户登录
// @Description 登录获取访问/刷新令牌对和用户摘要
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "登录信息"
// @Success 200 {object} map[string]interface{}
// @Router /login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	user, pair, err := ac.authService.Login(&req, c.ClientIP())
	if err != nil {
		utils.Unauthorized(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
		"user":    services.ToUserSummary(user),
	})
}

// RefreshToken 刷新令牌
// @Summary 刷新令牌
// @Description 用刷新令牌换取新的令牌对
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "刷新令牌"
// @Success 200 {object} config.TokenPair
// @Router /auth/refresh [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	pair, err := ac.authService.RefreshToken(req.Refresh)
	if err != nil {
		utils.Unauthorized(c, "failed to refresh token")
		return
	}

	utils.OK(c, pair)
}

// Logout 用户登出
// @Summary 用户登出
// @Description 将当前令牌加入黑名单
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	tokenString := c.GetString("token")
	if tokenString == "" {
		utils.Unauthorized(c, "authorization header required")
		return
	}

	if err := ac.authService.Logout(tokenString); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}
