package service

import (
	"errors"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"github.com/gmaisuradze997/guitar-shop/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAddressIncomplete  = errors.New("shipping address is incomplete")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

const (
	freeShippingThreshold = 50.0
	flatShippingFee       = 5.99
	taxRate               = 0.08
)

// ShippingAddress is the checkout address payload. Line2 is optional,
// everything else is required.
type ShippingAddress struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a ShippingAddress) complete() bool {
	return a.Line1 != "" && a.City != "" && a.State != "" && a.PostalCode != "" && a.Country != ""
}

// OrderPage is a paginated order listing.
type OrderPage struct {
	Data       []model.Order `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type OrderService interface {
	CreateOrder(userID uint, address ShippingAddress) (*model.Order, error)
	GetUserOrders(userID uint, page, limit int) (*OrderPage, error)
	GetOrderByID(userID uint, isAdmin bool, orderID uint) (*model.Order, error)
	ListOrders(page, limit int, status model.OrderStatus, search string) (*OrderPage, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, db *gorm.DB) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

// CreateOrder turns the user's cart into an order inside a single
// transaction. Product rows are locked before the stock check so two
// concurrent checkouts cannot both take the last unit. Item name and
// price are snapshotted onto the order so later catalog edits do not
// rewrite purchase history.
func (s *orderService) CreateOrder(userID uint, address ShippingAddress) (*model.Order, error) {
	if !address.complete() {
		return nil, ErrAddressIncomplete
	}

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Checkout rejected, cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	if tx.Error != nil {
		return nil, tx.Error
	}

	subtotal := 0.0
	orderItems := make([]model.OrderItem, 0, len(cart.Items))

	for _, cartItem := range cart.Items {
		var product model.Product
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error
		if err != nil {
			tx.Rollback()
			return nil, ErrProductNotFound
		}

		if !product.InStock || product.StockCount < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Checkout rejected, insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"requested":  cartItem.Quantity,
				"stock":      product.StockCount,
			})
			return nil, ErrInsufficientStock
		}

		subtotal += product.Price * float64(cartItem.Quantity)
		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  cartItem.Quantity,
		})
	}

	subtotal = util.Round2(subtotal)
	shipping := flatShippingFee
	if subtotal >= freeShippingThreshold {
		shipping = 0
	}
	tax := util.Round2(subtotal * taxRate)
	total := util.Round2(subtotal + shipping + tax)

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           total,
		ShippingLine1:   address.Line1,
		ShippingLine2:   address.Line2,
		ShippingCity:    address.City,
		ShippingState:   address.State,
		ShippingPostal:  address.PostalCode,
		ShippingCountry: address.Country,
		Items:           orderItems,
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, cartItem := range cart.Items {
		err := tx.Model(&model.Product{}).
			Where("id = ?", cartItem.ProductID).
			Updates(map[string]interface{}{
				"stock_count": gorm.Expr("stock_count - ?", cartItem.Quantity),
				"in_stock":    gorm.Expr("stock_count - ? > 0", cartItem.Quantity),
			}).Error
		if err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock", err, map[string]interface{}{
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}
	}

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total,
		"items":    len(order.Items),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	orders, total, err := s.orderRepo.FindByUserID(userID, page, limit)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Data:       orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetOrderByID returns the order only to its owner or to an admin.
// Someone else's order reads as not-found rather than forbidden, so
// valid order IDs stay unguessable.
func (s *orderService) GetOrderByID(userID uint, isAdmin bool, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(page, limit int, status model.OrderStatus, search string) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	orders, total, err := s.orderRepo.FindAll(page, limit, status, search)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Data:       orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return s.orderRepo.FindByID(orderID)
}
