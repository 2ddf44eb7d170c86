package controllers

import (
	"net/http"
	"strconv"

	"bookstore_go/config"
	"bookstore_go/middleware"
	"bookstore_go/models"
	"bookstore_go/services"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookController 书籍控制器
type BookController struct {
	bookService *services.BookService
	uploader    *utils.FileUploader
}

// NewBookController 创建书籍控制器实例
func NewBookController() *BookController {
	return &BookController{
		bookService: services.NewBookService(),
		uploader:    utils.NewFileUploader(),
	}
}

// GetBooks 获取书籍列表
// 列表视图返回精简投影（ID、标题、作者、价格、封面），详情视图才返回完整记录
// @Summary 获取书籍列表
// @Tags books
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param category query int false "分类ID"
// @Param author query string false "作者名"
// @Param min_price query number false "最低价"
// @Param max_price query number false "最高价"
// @Param availability query string false "库存状态"
// @Success 200 {object} map[string]interface{}
// @Router /books [get]
func (bc *BookController) GetBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := &services.BookFilters{
		Author:       c.Query("author"),
		Availability: c.Query("availability"),
	}
	if v, err := strconv.ParseUint(c.Query("category"), 10, 32); err == nil {
		filters.Category = uint(v)
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filters.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filters.MaxPrice = v
	}

	books, total, err := bc.bookService.GetBooks(page, limit, filters)
	if err != nil {
		middleware.ErrorLogger("failed to get books", zap.Error(err))
		utils.InternalError(c, "failed to get books")
		return
	}

	items := make([]models.BookListItem, 0, len(books))
	for i := range books {
		items = append(items, books[i].ToListItem())
	}

	c.JSON(http.StatusOK, gin.H{
		"books": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// CreateBook 创建书籍（仅管理员）
// @Summary 创建书籍
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body services.CreateBookRequest true "书籍信息"
// @Success 201 {object} models.Book
// @Router /books [post]
func (bc *BookController) CreateBook(c *gin.Context) {
	var req services.CreateBookRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	book, err := bc.bookService.CreateBook(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Created(c, book)
}

// GetBook 获取书籍详情
// @Summary 获取书籍详情
// @Tags books
// @Produce json
// @Param id path int true "书籍ID"
// @Success 200 {object} models.Book
// @Router /books/{id} [get]
func (bc *BookController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Book")
		return
	}

	book, err := bc.bookService.GetBook(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, book)
}

// UpdateBook 更新书籍（仅管理员）
// @Summary 更新书籍
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "书籍ID"
// @Param request body services.UpdateBookRequest true "书籍信息"
// @Success 200 {object} models.Book
// @Router /books/{id} [put]
func (bc *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Book")
		return
	}

	var req services.UpdateBookRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	book, err := bc.bookService.UpdateBook(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.OK(c, book)
}

// DeleteBook 删除书籍（仅管理员）
// @Summary 删除书籍
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "书籍ID"
// @Success 204 {object} map[string]interface{}
// @Router /books/{id} [delete]
func (bc *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Book")
		return
	}

	if err := bc.bookService.DeleteBook(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Deleted(c, "Book")
}

// UploadBookCover 上传书籍封面（仅管理员）
// @Summary 上传书籍封面
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "书籍ID"
// @Param cover formData file true "封面文件"
// @Success 200 {object} models.Book
// @Router /books/{id}/cover [post]
func (bc *BookController) UploadBookCover(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.NotFound(c, "Book")
		return
	}

	var book models.Book
	if err := config.DB.First(&book, id).Error; err != nil {
		utils.NotFound(c, "Book")
		return
	}

	path, err := bc.uploader.SaveImage(c, "cover", "covers")
	if err != nil {
		utils.BadRequest(c, map[string]string{"cover": err.Error()})
		return
	}

	if err := config.DB.Model(&book).Update("book_cover_photo", path).Error; err != nil {
		middleware.ErrorLogger("failed to save cover reference", zap.Error(err))
		utils.InternalError(c, "failed to save cover reference")
		return
	}
	book.BookCoverPhoto = path

	utils.OK(c, book)
}
