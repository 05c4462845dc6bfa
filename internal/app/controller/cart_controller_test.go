package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/internal/app/service"
	"github.com/gmaisuradze997/guitar-shop/internal/db"
	"github.com/gmaisuradze997/guitar-shop/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hashed",
		FirstName:    "Test",
		LastName:     "Buyer",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "Effects Pedals", Slug: "effects-pedals"}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:       "DS-1 Distortion",
		Slug:       "ds-1-distortion",
		Price:      62.99,
		Brand:      "Boss",
		InStock:    true,
		StockCount: 10,
		CategoryID: category.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

func asUser(userID uint, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		handler(c)
	}
}

func TestCartController_GetCart(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.GET("/cart", asUser(user.ID, controller.GetCart))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	cart := response["cart"].(map[string]interface{})
	assert.Len(t, cart["items"], 0)
}

func TestCartController_AddItem(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.POST("/cart/items", asUser(user.ID, controller.AddItem))

	body, _ := json.Marshal(map[string]interface{}{
		"productId": product.ID,
		"quantity":  2,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	cart := response["cart"].(map[string]interface{})
	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(2), item["quantity"])
	assert.Equal(t, "DS-1 Distortion", item["product"].(map[string]interface{})["name"])
}

func TestCartController_AddItem_InsufficientStock(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.POST("/cart/items", asUser(user.ID, controller.AddItem))

	body, _ := json.Marshal(map[string]interface{}{
		"productId": product.ID,
		"quantity":  11,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_INSUFFICIENT_STOCK", response["error"])
}

func TestCartController_AddItem_UnknownProduct(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.POST("/cart/items", asUser(user.ID, controller.AddItem))

	body, _ := json.Marshal(map[string]interface{}{
		"productId": 9999,
		"quantity":  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_UpdateItem(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)
	router.POST("/cart/items", asUser(user.ID, controller.AddItem))
	router.PATCH("/cart/items/:id", asUser(user.ID, controller.UpdateItem))

	body, _ := json.Marshal(map[string]interface{}{"productId": product.ID, "quantity": 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var item model.CartItem
	require.NoError(t, testDB.Where("product_id = ?", product.ID).First(&item).Error)

	body, _ = json.Marshal(map[string]interface{}{"quantity": 5})
	req = httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/cart/items/%d", item.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	items := response["cart"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(5), items[0].(map[string]interface{})["quantity"])
}

func TestCartController_UpdateItem_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.PATCH("/cart/items/:id", asUser(user.ID, controller.UpdateItem))

	body, _ := json.Marshal(map[string]interface{}{"quantity": 5})
	req := httptest.NewRequest(http.MethodPatch, "/cart/items/abc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_RemoveItem(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)
	router.POST("/cart/items", asUser(user.ID, controller.AddItem))
	router.DELETE("/cart/items/:id", asUser(user.ID, controller.RemoveItem))

	body, _ := json.Marshal(map[string]interface{}{"productId": product.ID, "quantity": 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var item model.CartItem
	require.NoError(t, testDB.Where("product_id = ?", product.ID).First(&item).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/cart/items/%d", item.ID), nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["cart"].(map[string]interface{})["items"], 0)
}

func TestCartController_RemoveItem_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.DELETE("/cart/items/:id", asUser(user.ID, controller.RemoveItem))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cart/items/999", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.POST("/cart/items", asUser(user.ID, controller.AddItem))
	router.DELETE("/cart", asUser(user.ID, controller.ClearCart))

	body, _ := json.Marshal(map[string]interface{}{"productId": product.ID, "quantity": 3})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["cart"].(map[string]interface{})["items"], 0)
}
