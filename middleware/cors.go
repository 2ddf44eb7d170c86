package middleware

import (
	"strings"
	"time"

	"bookstore_go/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS 返回CORS中间件
// 允许的来源通过 CORS_ALLOW_ORIGINS 配置（逗号分隔）
func CORS() gin.HandlerFunc {
	origins := strings.Split(
		config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		",",
	)

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
