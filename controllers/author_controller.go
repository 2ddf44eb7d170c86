package controllers

import (
	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
)

// AuthorController 作者控制器
type AuthorController struct {
	uploader *utils.FileUploader
}

// NewAuthorController 创建作者控制器实例
func NewAuthorController() *AuthorController {
	return &AuthorController{
		uploader: utils.NewFileUploader(),
	}
}

// AuthorRequest 作者请求结构
type AuthorRequest struct {
	Name  string `json:"author_name" binding:"required,max=255"`
	Photo string `json:"author_photo"`
}

// GetAuthors 获取作者列表
// @Summary 获取作者列表
// @Tags authors
// @Produce json
// @Success 200 {array} models.Author
// @Router /authors [get]
func (ac *AuthorController) GetAuthors(c *gin.Context) {
	var authors []models.Author
	if err := config.DB.Order("name").Find(&authors).Error; err != nil {
		utils.InternalError(c, "failed to get authors")
		return
	}
	utils.OK(c, authors)
}

// CreateAuthor 创建作者（仅管理员）
// @Summary 创建作者
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body AuthorRequest true "作者信息"
// @Success 201 {object} models.Author
// @Router /authors [post]
func (ac *AuthorController) CreateAuthor(c *gin.Context) {
	var req AuthorRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	author := models.Author{Name: req.Name, Photo: req.Photo}
	if err := config.DB.Create(&author).Error; err != nil {
		utils.InternalError(c, "failed to create author")
		return
	}

	utils.Created(c, author)
}

// GetAuthor 获取作者详情
// @Summary 获取作者详情
// @Tags authors
// @Produce json
// @Param id path int true "作者ID"
// @Success 200 {object} models.Author
// @Router /authors/{id} [get]
func (ac *AuthorController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Author")
		return
	}

	var author models.Author
	if err := config.DB.First(&author, id).Error; err != nil {
		utils.NotFound(c, "Author")
		return
	}

	utils.OK(c, author)
}

// UpdateAuthor 更新作者（仅管理员）
// @Summary 更新作者
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "作者ID"
// @Param request body AuthorRequest true "作者信息"
// @Success 200 {object} models.Author
// @Router /authors/{id} [put]
func (ac *AuthorController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Author")
		return
	}

	var author models.Author
	if err := config.DB.First(&author, id).Error; err != nil {
		utils.NotFound(c, "Author")
		return
	}

	var req AuthorRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	author.Name = req.Name
	if req.Photo != "" {
		author.Photo = req.Photo
	}

	if err := config.DB.Save(&author).Error; err != nil {
		utils.InternalError(c, "failed to update author")
		return
	}

	utils.OK(c, author)
}

// DeleteAuthor 删除作者（仅管理员）
// @Summary 删除作者
// @Tags authors
// @Produce json
// @Security Bearer
// @Param id path int true "作者ID"
// @Success 204 {object} map[string]interface{}
// @Router /authors/{id} [delete]
func (ac *AuthorController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Author")
		return
	}

	var author models.Author
	if err := config.DB.First(&author, id).Error; err != nil {
		utils.NotFound(c, "Author")
		return
	}

	// 只解除与书籍的关联，不删除书籍本身
	if err := config.DB.Model(&author).Association("Books").Clear(); err != nil {
		utils.InternalError(c, "failed to detach author from books")
		return
	}

	if err := config.DB.Delete(&author).Error; err != nil {
		utils.InternalError(c, "failed to delete author")
		return
	}

	utils.Deleted(c, "Author")
}

// UploadAuthorPhoto 上传作者照片（仅管理员）
// @Summary 上传作者照片
// @Tags authors
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "作者ID"
// @Param photo formData file true "照片文件"
// @Success 200 {object} models.Author
// @Router /authors/{id}/photo [post]
func (ac *AuthorController) UploadAuthorPhoto(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Author")
		return
	}

	var author models.Author
	if err := config.DB.First(&author, id).Error; err != nil {
		utils.NotFound(c, "Author")
		return
	}

	path, err := ac.uploader.SaveImage(c, "photo", "authors")
	if err != nil {
		utils.BadRequest(c, map[string]string{"photo": err.Error()})
		return
	}

	if err := config.DB.Model(&author).Update("photo", path).Error; err != nil {
		utils.InternalError(c, "failed to save photo reference")
		return
	}
	author.Photo = path

	utils.OK(c, author)
}
