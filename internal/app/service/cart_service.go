package service

import (
	"errors"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product is out of stock")
)

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID, productID uint, quantity int) (*model.Cart, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	ClearCart(userID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) AddItem(userID, productID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if !product.InStock || product.StockCount < 1 {
		return nil, ErrProductUnavailable
	}

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItem(cart.ID, productID)
	switch {
	case err == nil:
		newQuantity := existing.Quantity + quantity
		if newQuantity > product.StockCount {
			logger.Warn("Add to cart rejected, would exceed stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"requested":  newQuantity,
				"stock":      product.StockCount,
			})
			return nil, ErrInsufficientStock
		}
		existing.Quantity = newQuantity
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity > product.StockCount {
			return nil, ErrInsufficientStock
		}
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*model.Cart, error) {
	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItemByID(cart.ID, itemID)
	if err != nil {
		return nil, ErrCartItemNotFound
	}

	// Quantity zero removes the line
	if quantity < 1 {
		if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
			return nil, err
		}
		return s.cartRepo.FindOrCreateByUserID(userID)
	}

	product, err := s.productRepo.FindByID(item.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if quantity > product.StockCount {
		logger.Warn("Quantity update rejected, exceeds stock", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"requested":    quantity,
			"stock":        product.StockCount,
		})
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})
	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) ClearCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUserID(userID)
}
