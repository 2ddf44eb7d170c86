package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bookstore_go/config"
	"bookstore_go/middleware"
	"bookstore_go/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var routeTestDBCounter int64

// setupTestRouter 启动带内存数据库的完整路由栈
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	if err := middleware.InitLogger("test"); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	n := atomic.AddInt64(&routeTestDBCounter, 1)
	dsn := fmt.Sprintf("file:route_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))

	config.DB = db
	config.RedisClient = nil

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		config.DB = nil
	})

	r := gin.New()
	SetupRoutes(r)

	return r, db
}

// doJSON 发送JSON请求
func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginAs 创建指定角色的用户并返回访问令牌
func loginAs(t *testing.T, r *gin.Engine, db *gorm.DB, email, role string) string {
	t.Helper()

	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "password123",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)

	w := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Access)
	return resp.Access
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"first_name":       "New",
		"last_name":        "User",
		"email":            "new@example.com",
		"password":         "password123",
		"password_confirm": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new@example.com", resp["email"])
	assert.Equal(t, "user", resp["role"])
	// 密码绝不出现在响应中
	assert.NotContains(t, resp, "password")
}

func TestRegisterEndpoint_PasswordMismatch(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"first_name":       "New",
		"last_name":        "User",
		"email":            "mismatch@example.com",
		"password":         "password123",
		"password_confirm": "password456",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "password")
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookEndpoints_AdminOnlyWrites(t *testing.T) {
	r, db := setupTestRouter(t)

	admin := loginAs(t, r, db, "admin@example.com", models.RoleAdmin)
	regular := loginAs(t, r, db, "regular@example.com", models.RoleUser)

	bookPayload := gin.H{
		"ISBN":             "9780441478125",
		"title":            "The Left Hand of Darkness",
		"price":            14.99,
		"publication_date": "1969-03-01",
	}

	// 未认证 → 401
	w := doJSON(r, http.MethodPost, "/books", "", bookPayload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 普通用户 → 403
	w = doJSON(r, http.MethodPost, "/books", regular, bookPayload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员 → 201
	w = doJSON(r, http.MethodPost, "/books", admin, bookPayload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "9780441478125", created["ISBN"])

	// 书籍详情对匿名用户开放
	bookID := uint(created["book_id"].(float64))
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/books/%d", bookID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 删除同样只对管理员开放
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/books/%d", bookID), regular, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/books/%d", bookID), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBookEndpoint_NotFound(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/books/99999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Book not found", resp["error"])
}

func TestReviewEndpoint_UpdatesAggregates(t *testing.T) {
	r, db := setupTestRouter(t)

	token := loginAs(t, r, db, "reviewer@example.com", models.RoleUser)

	var user models.User
	require.NoError(t, db.Where("email = ?", "reviewer@example.com").First(&user).Error)

	book := models.Book{ISBN: "9780000000401", Title: "Aggregate Test", Price: 10.00}
	require.NoError(t, db.Create(&book).Error)

	w := doJSON(r, http.MethodPost, "/review", token, gin.H{
		"user":        user.ID,
		"book":        book.ID,
		"rating":      4,
		"review_text": "good",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 成功响应后聚合字段立即可见
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/books/%d", book.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4.0, got["avg_rating"])
	assert.Equal(t, 1.0, got["total_reviews"])
}

func TestReviewEndpoint_RequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/review", "", gin.H{
		"user": 1, "book": 1, "rating": 5,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderEndpoints(t *testing.T) {
	r, db := setupTestRouter(t)

	token := loginAs(t, r, db, "buyer@example.com", models.RoleUser)

	var user models.User
	require.NoError(t, db.Where("email = ?", "buyer@example.com").First(&user).Error)

	book := models.Book{ISBN: "9780000000402", Title: "Order Test", Price: 25.00}
	require.NoError(t, db.Create(&book).Error)

	// 创建订单，状态默认pending
	w := doJSON(r, http.MethodPost, "/order", token, gin.H{
		"user":        user.ID,
		"total_price": 50.00,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "pending", order["status"])
	orderID := uint(order["order_id"].(float64))

	// 创建订单项，未传价格时快照书价
	w = doJSON(r, http.MethodPost, "/orderItems", token, gin.H{
		"order":    orderID,
		"book":     book.ID,
		"quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 25.0, item["price"])

	// 已发货订单不可取消
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusShipped).Error)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/order/%d", orderID), token, gin.H{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryEndpoints(t *testing.T) {
	r, db := setupTestRouter(t)

	admin := loginAs(t, r, db, "catadmin@example.com", models.RoleAdmin)

	w := doJSON(r, http.MethodPost, "/category", admin, gin.H{
		"category_name": "Fiction",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 重复名称被拒绝
	w = doJSON(r, http.MethodPost, "/category", admin, gin.H{
		"category_name": "Fiction",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 列表公开可读
	w = doJSON(r, http.MethodGet, "/category", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpointMounted(t *testing.T) {
	// /health挂在config.SetupRouter里，这里验证业务路由没有遮蔽它
	gin.SetMode(gin.TestMode)
	r := config.SetupRouter()
	SetupRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
