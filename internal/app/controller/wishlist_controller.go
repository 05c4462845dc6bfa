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

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{wishlistService: wishlistService}
}

type WishlistToggleRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

// GetWishlist returns the user's wishlist
// GET /api/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := ctrl.wishlistService.GetWishlist(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// AddItem puts a product on the wishlist
// POST /api/wishlist
func (ctrl *WishlistController) AddItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req WishlistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A product ID is required")
		return
	}

	exists, err := ctrl.wishlistService.Contains(userID, req.ProductID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist")
		return
	}
	if exists {
		apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "Product is already in your wishlist")
		return
	}

	items, err := ctrl.wishlistService.AddItem(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"items": items,
	})
}

// Toggle flips a product in or out of the wishlist
// POST /api/wishlist/toggle
func (ctrl *WishlistController) Toggle(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req WishlistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A product ID is required")
		return
	}

	inWishlist, err := ctrl.wishlistService.Toggle(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inWishlist": inWishlist,
	})
}

// RemoveItem removes a product from the wishlist
// DELETE /api/wishlist/:productId
func (ctrl *WishlistController) RemoveItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	items, err := ctrl.wishlistService.RemoveItem(userID, uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			apperrors.NotFound(c, apperrors.WishlistItemNotFound, "Wishlist item not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// Check reports whether a product is in the wishlist
// GET /api/wishlist/check/:productId
func (ctrl *WishlistController) Check(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	inWishlist, err := ctrl.wishlistService.Contains(userID, uint(productID))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inWishlist": inWishlist,
	})
}
