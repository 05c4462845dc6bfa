package service

import (
	"errors"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"gorm.io/gorm"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistService interface {
	GetWishlist(userID uint) ([]model.WishlistItem, error)
	AddItem(userID, productID uint) ([]model.WishlistItem, error)
	RemoveItem(userID, productID uint) ([]model.WishlistItem, error)
	// Toggle adds the product when absent and removes it when present,
	// returning whether it is in the wishlist afterwards.
	Toggle(userID, productID uint) (bool, error)
	Contains(userID, productID uint) (bool, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) GetWishlist(userID uint) ([]model.WishlistItem, error) {
	return s.wishlistRepo.FindByUserID(userID)
}

func (s *wishlistService) AddItem(userID, productID uint) ([]model.WishlistItem, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}

	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		item := &model.WishlistItem{UserID: userID, ProductID: productID}
		if err := s.wishlistRepo.Create(item); err != nil {
			return nil, err
		}
		logger.Info("Wishlist item added", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
	}

	return s.wishlistRepo.FindByUserID(userID)
}

func (s *wishlistService) RemoveItem(userID, productID uint) ([]model.WishlistItem, error) {
	if err := s.wishlistRepo.Delete(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, err
	}
	return s.wishlistRepo.FindByUserID(userID)
}

func (s *wishlistService) Toggle(userID, productID uint) (bool, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return false, ErrProductNotFound
	}

	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.wishlistRepo.Delete(userID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	item := &model.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Create(item); err != nil {
		return false, err
	}
	return true, nil
}

func (s *wishlistService) Contains(userID, productID uint) (bool, error) {
	return s.wishlistRepo.Exists(userID, productID)
}
