package controllers

import (
	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
)

// CategoryController 分类控制器
type CategoryController struct{}

// NewCategoryController 创建分类控制器实例
func NewCategoryController() *CategoryController {
	return &CategoryController{}
}

// CategoryRequest 分类请求结构
type CategoryRequest struct {
	Name string `json:"category_name" binding:"required,max=255"`
}

// GetCategories 获取分类列表
// @Summary 获取分类列表
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /category [get]
func (cc *CategoryController) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Order("name").Find(&categories).Error; err != nil {
		utils.InternalError(c, "failed to get categories")
		return
	}
	utils.OK(c, categories)
}

// CreateCategory 创建分类（仅管理员）
// @Summary 创建分类
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CategoryRequest true "分类信息"
// @Success 201 {object} models.Category
// @Router /category [post]
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	// 分类名唯一
	var existing models.Category
	if err := config.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		utils.BadRequest(c, map[string]string{"category_name": "category with this name already exists"})
		return
	}

	category := models.Category{Name: req.Name}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.InternalError(c, "failed to create category")
		return
	}

	utils.Created(c, category)
}

// GetCategory 获取分类详情
// @Summary 获取分类详情
// @Tags categories
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} models.Category
// @Router /category/{id} [get]
func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Category")
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.NotFound(c, "Category")
		return
	}

	utils.OK(c, category)
}

// UpdateCategory 更新分类（仅管理员）
// @Summary 更新分类
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "分类ID"
// @Param request body CategoryRequest true "分类信息"
// @Success 200 {object} models.Category
// @Router /category/{id} [put]
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Category")
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.NotFound(c, "Category")
		return
	}

	var req CategoryRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var existing models.Category
	if err := config.DB.Where("name = ? AND id != ?", req.Name, id).First(&existing).Error; err == nil {
		utils.BadRequest(c, map[string]string{"category_name": "category with this name already exists"})
		return
	}

	category.Name = req.Name
	if err := config.DB.Save(&category).Error; err != nil {
		utils.InternalError(c, "failed to update category")
		return
	}

	utils.OK(c, category)
}

// DeleteCategory 删除分类（仅管理员）
// 关联书籍的category置空而不是删除
// @Summary 删除分类
// @Tags categories
// @Produce json
// @Security Bearer
// @Param id path int true "分类ID"
// @Success 204 {object} map[string]interface{}
// @Router /category/{id} [delete]
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Category")
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.NotFound(c, "Category")
		return
	}

	// 先把引用该分类的书籍置空（SET NULL语义）
	if err := config.DB.Model(&models.Book{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		utils.InternalError(c, "failed to detach books from category")
		return
	}

	if err := config.DB.Delete(&category).Error; err != nil {
		utils.InternalError(c, "failed to delete category")
		return
	}

	utils.Deleted(c, "Category")
}
