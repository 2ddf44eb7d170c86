package routes

import (
	"bookstore_go/controllers"
	"bookstore_go/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册所有路由
func SetupRoutes(r *gin.Engine) {
	// 全局中间件
	r.Use(middleware.CORS())
	r.Use(middleware.Logger())

	// 控制器实例
	authController := controllers.NewAuthController()
	userController := controllers.NewUserController()
	categoryController := controllers.NewCategoryController()
	authorController := controllers.NewAuthorController()
	bookController := controllers.NewBookController()
	reviewController := controllers.NewReviewController()
	orderController := controllers.NewOrderController()
	orderItemController := controllers.NewOrderItemController()

	// ==================== 认证路由 ====================
	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	auth := r.Group("/auth")
	{
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), authController.Logout)
	}

	// ==================== 用户管理（仅管理员） ====================
	users := r.Group("/users", middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		users.GET("", userController.GetUsers)
		users.POST("", userController.CreateUser)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
	}

	// ==================== 分类路由 ====================
	// 读取公开，写操作需要管理员
	category := r.Group("/category")
	{
		category.GET("", categoryController.GetCategories)
		category.GET("/:id", categoryController.GetCategory)

		adminOnly := category.Group("", middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			adminOnly.POST("", categoryController.CreateCategory)
			adminOnly.PUT("/:id", categoryController.UpdateCategory)
			adminOnly.DELETE("/:id", categoryController.DeleteCategory)
		}
	}

	// ==================== 作者路由 ====================
	authors := r.Group("/authors")
	{
		authors.GET("", authorController.GetAuthors)
		authors.GET("/:id", authorController.GetAuthor)

		adminOnly := authors.Group("", middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			adminOnly.POST("", authorController.CreateAuthor)
			adminOnly.PUT("/:id", authorController.UpdateAuthor)
			adminOnly.DELETE("/:id", authorController.DeleteAuthor)
			adminOnly.POST("/:id/photo", authorController.UploadAuthorPhoto)
		}
	}

	// ==================== 书籍路由 ====================
	books := r.Group("/books")
	{
		books.GET("", bookController.GetBooks)
		books.GET("/:id", bookController.GetBook)

		adminOnly := books.Group("", middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			adminOnly.POST("", bookController.CreateBook)
			adminOnly.PUT("/:id", bookController.UpdateBook)
			adminOnly.DELETE("/:id", bookController.DeleteBook)
			adminOnly.POST("/:id/cover", bookController.UploadBookCover)
		}
	}

	// ==================== 评论路由（需登录） ====================
	review := r.Group("/review", middleware.AuthMiddleware())
	{
		review.GET("", reviewController.GetReviews)
		review.POST("", reviewController.CreateReview)
		review.GET("/:id", reviewController.GetReview)
		review.PUT("/:id", reviewController.UpdateReview)
		review.DELETE("/:id", reviewController.DeleteReview)
	}

	// ==================== 订单路由（需登录） ====================
	order := r.Group("/order", middleware.AuthMiddleware())
	{
		order.GET("", orderController.GetOrders)
		order.POST("", orderController.CreateOrder)
		order.GET("/:id", orderController.GetOrder)
		order.PUT("/:id", orderController.UpdateOrder)
		order.DELETE("/:id", orderController.DeleteOrder)
	}

	// ==================== 订单项路由（需登录） ====================
	orderItems := r.Group("/orderItems", middleware.AuthMiddleware())
	{
		orderItems.GET("", orderItemController.GetOrderItems)
		orderItems.POST("", orderItemController.CreateOrderItem)
		orderItems.GET("/:id", orderItemController.GetOrderItem)
		orderItems.PUT("/:id", orderItemController.UpdateOrderItem)
		orderItems.DELETE("/:id", orderItemController.DeleteOrderItem)
	}
}
