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

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type ReviewRequest struct {
	ProductID uint   `json:"productId"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
	case errors.Is(err, service.ErrReviewAlreadyExists):
		apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "You have already reviewed this product")
	case errors.Is(err, service.ErrReviewNotOwned):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only modify your own reviews")
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review")
	}
}

// ListProductReviews returns a product's reviews, newest first
// GET /api/reviews/product/:productId
func (ctrl *ReviewController) ListProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(uint(productID))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
	})
}

// CreateReview posts a review for a product
// POST /api/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A rating between 1 and 5 and a title are required")
		return
	}
	if req.ProductID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A product ID is required")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, req.ProductID, service.ReviewInput{
		Rating: req.Rating,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		log.Warn("Review creation failed", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review": review,
	})
}

// UpdateReview edits the caller's own review
// PATCH /api/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A rating between 1 and 5 and a title are required")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, uint(reviewID), service.ReviewInput{
		Rating: req.Rating,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// DeleteReview removes a review, owner or admin only
// DELETE /api/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, uint(reviewID), middleware.IsAdmin(c)); err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}
