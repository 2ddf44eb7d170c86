package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径里的:id参数
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
