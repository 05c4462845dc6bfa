package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/service"
	apperrors "github.com/gmaisuradze997/guitar-shop/internal/errors"
	"github.com/gmaisuradze997/guitar-shop/internal/middleware"
)

type AdminController struct {
	adminService   service.AdminService
	orderService   service.OrderService
	productService service.ProductService
}

func NewAdminController(
	adminService service.AdminService,
	orderService service.OrderService,
	productService service.ProductService,
) *AdminController {
	return &AdminController{
		adminService:   adminService,
		orderService:   orderService,
		productService: productService,
	}
}

type AdminProductRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	Brand          string   `json:"brand"`
	Images         []string `json:"images"`
	StockCount     int      `json:"stockCount" binding:"min=0"`
	CategoryID     uint     `json:"categoryId" binding:"required"`
}

type AdminProductUpdateRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	Brand          string   `json:"brand"`
	Images         []string `json:"images"`
	StockCount     *int     `json:"stockCount"`
	CategoryID     uint     `json:"categoryId"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetDashboard returns the analytics snapshot
// GET /api/admin/analytics
func (ctrl *AdminController) GetDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetDashboardStats()
	if err != nil {
		log.Error("Failed to build dashboard stats", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "dashboard")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListProducts returns the catalog for the admin table, including
// out-of-stock items, searchable by name or brand
// GET /api/admin/products
func (ctrl *AdminController) ListProducts(c *gin.Context) {
	query := service.ProductQuery{
		CategorySlug: c.Query("category"),
		Brand:        c.Query("brand"),
		Search:       c.Query("search"),
		Sort:         c.DefaultQuery("sort", "newest"),
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := ctrl.productService.ListProducts(query)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, page)
}

// CreateProduct adds a product to the catalog
// POST /api/admin/products
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, a positive price and a category are required")
		return
	}

	product, err := ctrl.adminService.CreateProduct(service.ProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Brand:          req.Brand,
		Images:         req.Images,
		StockCount:     req.StockCount,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct edits a product
// PUT /api/admin/products/:id
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req AdminProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	// Stock stays unchanged when the payload omits it
	stockCount := -1
	if req.StockCount != nil {
		stockCount = *req.StockCount
	}

	product, err := ctrl.adminService.UpdateProduct(uint(productID), service.ProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Brand:          req.Brand,
		Images:         req.Images,
		StockCount:     stockCount,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product from the catalog
// DELETE /api/admin/products/:id
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.adminService.DeleteProduct(uint(productID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// ListOrders returns all orders, filterable by status and searchable
// by customer email or name
// GET /api/admin/orders
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := model.OrderStatus(c.Query("status"))

	orders, err := ctrl.orderService.ListOrders(page, limit, status, c.Query("search"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus sets an order's status
// PATCH /api/admin/orders/:id/status
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A status is required")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(uint(orderID), model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		default:
			log.Error("Order status update failed", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListCustomers returns customers with their order aggregates
// GET /api/admin/customers
func (ctrl *AdminController) ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	customers, err := ctrl.adminService.ListCustomers(page, limit, c.Query("search"))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "customer")
		return
	}

	c.JSON(http.StatusOK, customers)
}
