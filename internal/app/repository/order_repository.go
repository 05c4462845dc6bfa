package repository

import (
	"time"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"gorm.io/gorm"
)

// StatusCount is one bucket of the order status distribution.
type StatusCount struct {
	Status model.OrderStatus
	Count  int64
}

// MonthlySales is aggregated revenue for one calendar month.
type MonthlySales struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint, page, limit int) ([]model.Order, int64, error)
	FindAll(page, limit int, status model.OrderStatus, search string) ([]model.Order, int64, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	Count() (int64, error)
	TotalRevenue() (float64, error)
	StatusDistribution() ([]StatusCount, error)
	Recent(limit int) ([]model.Order, error)
	MonthlySales(months int) ([]MonthlySales, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint, page, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) FindAll(page, limit int, status model.OrderStatus, search string) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("LOWER(users.email) LIKE LOWER(?) OR LOWER(users.first_name) LIKE LOWER(?) OR LOWER(users.last_name) LIKE LOWER(?)",
				pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := query.
		Preload("Items").
		Preload("User").
		Order("orders.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) TotalRevenue() (float64, error) {
	var revenue float64
	err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ?", model.OrderStatusCancelled).
		Scan(&revenue).Error
	if err != nil {
		return 0, err
	}
	return revenue, nil
}

func (r *orderRepository) StatusDistribution() ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *orderRepository) Recent(limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Preload("User").
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// MonthlySales buckets non-cancelled orders by calendar month in Go so
// the same query runs on postgres and the sqlite test database.
func (r *orderRepository) MonthlySales(months int) ([]MonthlySales, error) {
	// Truncate to the first of the current month before stepping back,
	// otherwise AddDate normalization on month-end dates (Aug 31 minus
	// 11 months lands on "Sep 31", i.e. Oct 1) shortens the window.
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	since := monthStart.AddDate(0, -(months - 1), 0)

	type row struct {
		CreatedAt time.Time
		Total     float64
	}
	var rows []row
	err := r.db.Model(&model.Order{}).
		Select("created_at, total").
		Where("status <> ? AND created_at >= ?", model.OrderStatusCancelled, since).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to query monthly sales", err, nil)
		return nil, err
	}

	buckets := make(map[string]*MonthlySales)
	for _, row := range rows {
		month := row.CreatedAt.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlySales{Month: month}
			buckets[month] = bucket
		}
		bucket.Revenue += row.Total
		bucket.Orders++
	}

	result := make([]MonthlySales, 0, months)
	cursor := since
	for !cursor.After(monthStart) {
		month := cursor.Format("2006-01")
		if bucket, ok := buckets[month]; ok {
			result = append(result, *bucket)
		} else {
			result = append(result, MonthlySales{Month: month})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	return result, nil
}
