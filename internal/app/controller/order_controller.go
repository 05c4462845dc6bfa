package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmaisuradze997/guitar-shop/internal/app/service"
	apperrors "github.com/gmaisuradze997/guitar-shop/internal/errors"
	"github.com/gmaisuradze997/guitar-shop/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" binding:"required"`
}

type ShippingAddressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CreateOrder checks out the user's cart
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.OrderAddressRequired, "A complete shipping address is required")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, service.ShippingAddress{
		Line1:      req.ShippingAddress.Line1,
		Line2:      req.ShippingAddress.Line2,
		City:       req.ShippingAddress.City,
		State:      req.ShippingAddress.State,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAddressIncomplete):
			apperrors.BadRequest(c, apperrors.OrderAddressRequired, "A complete shipping address is required")
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.CartInsufficientStock, "One or more items no longer have enough stock")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "A product in your cart no longer exists")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// ListOrders returns the authenticated user's order history
// GET /api/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, err := ctrl.orderService.GetUserOrders(userID, page, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order, owner or admin only
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, middleware.IsAdmin(c), uint(orderID))
	if err != nil {
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
