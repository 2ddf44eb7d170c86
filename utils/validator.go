package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// tagMessages 各验证tag对应的错误消息模板
var tagMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s characters",
	"max":      "%s must be at most %s characters",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"oneof":    "%s must be one of: %s",
	"len":      "%s must be exactly %s characters",
	"eqfield":  "%s do not match",
}

// FormatValidationErrors 将validator错误转换为字段级错误map
func FormatValidationErrors(err error) map[string]string {
	errorMap := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorMap["non_field_errors"] = err.Error()
		return errorMap
	}

	for _, fe := range validationErrors {
		field := toSnakeCase(fe.Field())
		template, exists := tagMessages[fe.Tag()]
		if !exists {
			errorMap[field] = fmt.Sprintf("%s is invalid", field)
			continue
		}
		if strings.Count(template, "%s") == 2 {
			errorMap[field] = fmt.Sprintf(template, field, fe.Param())
		} else {
			errorMap[field] = fmt.Sprintf(template, field)
		}
	}

	return errorMap
}

// BindAndValidate 绑定请求体并验证，失败时返回ValidationError
func BindAndValidate(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return &ValidationError{Errors: FormatValidationErrors(err)}
	}
	return nil
}

// toSnakeCase 将结构体字段名转为json风格（FirstName -> first_name）
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
