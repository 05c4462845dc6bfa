package service

import (
	"errors"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"github.com/gmaisuradze997/guitar-shop/pkg/util"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this product")
	ErrReviewNotOwned      = errors.New("review belongs to another user")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

type ReviewInput struct {
	Rating int
	Title  string
	Body   string
}

type ReviewService interface {
	GetProductReviews(productID uint) ([]model.Review, error)
	CreateReview(userID, productID uint, input ReviewInput) (*model.Review, error)
	UpdateReview(userID, reviewID uint, input ReviewInput) (*model.Review, error)
	DeleteReview(userID, reviewID uint, isAdmin bool) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) GetProductReviews(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}
	return s.reviewRepo.FindByProductID(productID)
}

func (s *reviewService) CreateReview(userID, productID uint, input ReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}

	if _, err := s.reviewRepo.FindByUserAndProduct(userID, productID); err == nil {
		logger.Warn("Duplicate review rejected", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    input.Rating,
		Title:     input.Title,
		Body:      input.Body,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if err := s.recalcProductRating(productID); err != nil {
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"user_id":    userID,
		"product_id": productID,
		"rating":     input.Rating,
	})
	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) UpdateReview(userID, reviewID uint, input ReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != userID {
		return nil, ErrReviewNotOwned
	}

	review.Rating = input.Rating
	review.Title = input.Title
	review.Body = input.Body
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	if err := s.recalcProductRating(review.ProductID); err != nil {
		return nil, err
	}

	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) DeleteReview(userID, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return ErrReviewNotFound
	}
	if !isAdmin && review.UserID != userID {
		return ErrReviewNotOwned
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	if err := s.recalcProductRating(review.ProductID); err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":  reviewID,
		"product_id": review.ProductID,
	})
	return nil
}

// recalcProductRating recomputes the denormalized rating fields from
// the surviving reviews. Runs after every create, update and delete.
func (s *reviewService) recalcProductRating(productID uint) error {
	agg, err := s.reviewRepo.AggregateByProductID(productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(productID, util.Round2(agg.Average), int(agg.Count))
}
