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

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddCartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrProductUnavailable):
		apperrors.BadRequest(c, apperrors.ProductOutOfStock, "This product is out of stock")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.BadRequest(c, apperrors.CartInsufficientStock, "Not enough stock to fulfil the requested quantity")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
	}
}

// GetCart returns the authenticated user's cart
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// AddItem adds a product to the cart
// POST /api/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A product ID is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	cart, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		log.Warn("Add to cart failed", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// UpdateItem changes a cart line's quantity; zero removes the line
// PATCH /api/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A quantity is required")
		return
	}

	cart, err := ctrl.cartService.UpdateItemQuantity(userID, uint(itemID), *req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// RemoveItem deletes a cart line
// DELETE /api/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, uint(itemID))
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// ClearCart removes every line from the cart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cart, err := ctrl.cartService.ClearCart(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}
