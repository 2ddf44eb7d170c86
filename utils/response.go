package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotFoundError 标识某个实体按ID查不到，控制器统一映射为404
type NotFoundError struct {
	Entity string // 如 "Book"、"User"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// NewNotFoundError 创建NotFoundError
func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// ValidationError 字段级验证错误，控制器统一映射为400
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", ve.Errors)
}

// NewValidationError 单字段验证错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: map[string]string{field: message}}
}

// ForbiddenError 已认证但角色不够，映射为403
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// OK 200响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Deleted 204响应（body与原API保持一致）
func Deleted(c *gin.Context, entity string) {
	c.JSON(http.StatusNoContent, gin.H{
		"message": fmt.Sprintf("%s deleted successfully", entity),
	})
}

// NotFound 404响应，body形如 {"error": "Book not found"}
func NotFound(c *gin.Context, entity string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": fmt.Sprintf("%s not found", entity),
	})
}

// BadRequest 400响应（字段级错误map）
func BadRequest(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication credentials were not provided"
	}
	c.JSON(http.StatusUnauthorized, gin.H{"detail": message})
}

// Forbidden 403响应
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	c.JSON(http.StatusForbidden, gin.H{"detail": message})
}

// InternalError 500响应
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// HandleServiceError 将服务层错误映射为对应的HTTP响应
// 错误分类见ValidationError/NotFoundError/ForbiddenError
func HandleServiceError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *ValidationError:
		BadRequest(c, e.Errors)
	case *NotFoundError:
		NotFound(c, e.Entity)
	case *ForbiddenError:
		Forbidden(c, e.Message)
	default:
		InternalError(c, err.Error())
	}
}
