package repository

import (
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows and orders the product listing.
type ProductFilter struct {
	CategoryIDs []uint
	Brand       string
	Search      string
	InStockOnly bool
	MinPrice    *float64
	MaxPrice    *float64
	Sort        string // newest, oldest, price-asc, price-desc, name-asc, name-desc, rating
	Page        int
	Limit       int
}

// PriceRange holds the catalog's min and max product price.
type PriceRange struct {
	Min float64
	Max float64
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	FindAll(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	SlugExists(slug string) (bool, error)
	Count() (int64, error)
	ListBrands() ([]string, error)
	GetPriceRange() (*PriceRange, error)
	UpdateRating(productID uint, rating float64, reviewCount int) error
	TopSelling(limit int) ([]model.Product, []int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"slug": product.Slug,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// Delete removes the product together with its cart lines, wishlist
// entries and reviews so no user-facing surface keeps a dead reference.
func (r *productRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.WishlistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products", map[string]interface{}{
		"category_ids": filter.CategoryIDs,
		"brand":        filter.Brand,
		"search":       filter.Search,
		"sort":         filter.Sort,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})

	query := r.db.Model(&model.Product{})

	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		// LOWER(...) LIKE keeps the search case-insensitive on both
		// postgres and the sqlite test database.
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if filter.InStockOnly {
		query = query.Where("in_stock = ?", true)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err, nil)
		return nil, 0, err
	}

	query = query.Order(sortClause(filter.Sort))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}
	query = query.Offset((page - 1) * limit).Limit(limit)

	var products []model.Product
	if err := query.Preload("Category").Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err, nil)
		return nil, 0, err
	}

	return products, total, nil
}

func sortClause(sort string) string {
	switch sort {
	case "oldest":
		return "created_at ASC"
	case "price-asc":
		return "price ASC"
	case "price-desc":
		return "price DESC"
	case "name-asc":
		return "name ASC"
	case "name-desc":
		return "name DESC"
	case "rating":
		return "rating DESC"
	default: // newest
		return "created_at DESC"
	}
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reviews.User").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepository) ListBrands() ([]string, error) {
	var brands []string
	err := r.db.Model(&model.Product{}).
		Distinct("brand").
		Where("brand <> ''").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *productRepository) GetPriceRange() (*PriceRange, error) {
	var result PriceRange
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(MIN(price), 0) AS min, COALESCE(MAX(price), 0) AS max").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *productRepository) UpdateRating(productID uint, rating float64, reviewCount int) error {
	err := r.db.Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error
	if err != nil {
		logger.Error("Failed to update product rating", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}

func (r *productRepository) TopSelling(limit int) ([]model.Product, []int64, error) {
	type row struct {
		ProductID uint
		UnitsSold int64
	}
	var rows []row
	err := r.db.Model(&model.OrderItem{}).
		Select("order_items.product_id AS product_id, SUM(order_items.quantity) AS units_sold").
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.status <> ?", model.OrderStatusCancelled).
		Group("order_items.product_id").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to query top selling products", err, nil)
		return nil, nil, err
	}

	products := make([]model.Product, 0, len(rows))
	units := make([]int64, 0, len(rows))
	for _, row := range rows {
		var product model.Product
		if err := r.db.First(&product, row.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, nil, err
		}
		products = append(products, product)
		units = append(units, row.UnitsSold)
	}

	return products, units, nil
}
