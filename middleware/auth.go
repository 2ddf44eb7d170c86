package middleware

import (
	"strings"

	"bookstore_go/config"
	"bookstore_go/models"
	"bookstore_go/services"
	"bookstore_go/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT认证中间件
// 验证Authorization头里的访问令牌，把用户信息写入上下文
func AuthMiddleware() gin.HandlerFunc {
	authService := services.NewAuthService()

	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			utils.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		// 已登出的令牌直接拒绝
		if authService.IsTokenBlacklisted(tokenString) {
			utils.Unauthorized(c, "token has been revoked")
			c.Abort()
			return
		}

		claims, err := config.GetJWTService().ValidateToken(tokenString)
		if err != nil {
			utils.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		// 刷新令牌不能当访问令牌用
		if claims.TokenType != "access" {
			utils.Unauthorized(c, "invalid token type")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("token", tokenString)

		c.Next()
	}
}

// RequireAdmin 管理员角色检查中间件（必须在AuthMiddleware之后）
// 分类、作者、书籍的所有写操作都走这一个判断，角色比较大小写不敏感
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !strings.EqualFold(role, models.RoleAdmin) {
			utils.Forbidden(c, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractBearerToken 从Authorization头提取Bearer令牌
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return header
}
