package controllers

import (
	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
)

// UserController 用户控制器
type UserController struct{}

// NewUserController 创建用户控制器实例
func NewUserController() *UserController {
	return &UserController{}
}

// CreateUserRequest 创建用户请求结构（管理接口，区别于自助注册）
type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,max=20"`
	LastName  string `json:"last_name" binding:"required,max=20"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"omitempty,oneof=admin user"`
}

// UpdateUserRequest 更新用户请求结构
type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,max=20"`
	LastName  string `json:"last_name" binding:"omitempty,max=20"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"omitempty,min=8"`
	Role      string `json:"role" binding:"omitempty,oneof=admin user"`
	IsActive  *bool  `json:"is_active"`
}

// GetUsers 获取用户列表
// @Summary 获取用户列表
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("first_name, last_name").Find(&users).Error; err != nil {
		utils.InternalError(c, "failed to get users")
		return
	}
	utils.OK(c, users)
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "用户信息"
// @Success 201 {object} models.User
// @Router /users [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.BadRequest(c, map[string]string{"email": "email already exists"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	// 明文密码由BeforeSave钩子加密
	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
		IsActive:  true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.InternalError(c, "failed to create user")
		return
	}

	utils.Created(c, user)
}

// GetUser 获取用户详情
// @Summary 获取用户详情
// @Tags users
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} models.User
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "User")
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		utils.NotFound(c, "User")
		return
	}

	utils.OK(c, user)
}

// UpdateUser 更新用户
// @Summary 更新用户
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param request body UpdateUserRequest true "用户信息"
// @Success 200 {object} models.User
// @Router /users/{id} [put]
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "User")
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		utils.NotFound(c, "User")
		return
	}

	var req UpdateUserRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := config.DB.Where("email = ? AND id != ?", req.Email, id).First(&existing).Error; err == nil {
			utils.BadRequest(c, map[string]string{"email": "email already exists"})
			return
		}
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Password != "" {
		// 明文会在保存时被钩子加密
		user.Password = req.Password
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.InternalError(c, "failed to update user")
		return
	}

	utils.OK(c, user)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags users
// @Produce json
// @Param id path int true "用户ID"
// @Success 204 {object} map[string]interface{}
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "User")
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		utils.NotFound(c, "User")
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		utils.InternalError(c, "failed to delete user")
		return
	}

	utils.Deleted(c, "User")
}
