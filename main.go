package main

import (
	"log"
	"os"

	"bookstore_go/config"
	"bookstore_go/middleware"
	"bookstore_go/routes"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	//设置环境
	env := os.Getenv("GIN_MODE")
	if env == "" {
		env = "debug"
		os.Setenv("GIN_MODE", env)
	}

	// 初始化日志系统
	if err := middleware.InitLogger(env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer middleware.FlushLogger()

	// 初始化数据库
	if err := config.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDatabase()

	// 初始化Redis，失败时降级运行（缓存、限流、令牌黑名单不可用）
	if err := config.InitializeRedis(); err != nil {
		log.Printf("⚠️  Redis unavailable, running in degraded mode: %v", err)
	} else {
		defer config.CloseRedis()
	}

	// 设置路由
	r := config.SetupRouter()

	// 注册自定义路由
	routes.SetupRoutes(r)

	middleware.InfoLogger("service initialized",
		zap.String("mode", env),
		zap.Bool("redis", config.RedisClient != nil),
	)

	if err := config.StartServer(r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
