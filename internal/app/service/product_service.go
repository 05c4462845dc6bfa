package service

import (
	"errors"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductQuery is the public catalog query, as bound from query params.
type ProductQuery struct {
	CategorySlug string
	Brand        string
	Search       string
	InStockOnly  bool
	MinPrice     *float64
	MaxPrice     *float64
	Sort         string
	Page         int
	Limit        int
}

// ProductPage is a paginated catalog result.
type ProductPage struct {
	Data       []model.Product `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// CatalogFilters is the metadata the storefront uses to render its
// filter sidebar.
type CatalogFilters struct {
	Brands   []string `json:"brands"`
	MinPrice float64  `json:"minPrice"`
	MaxPrice float64  `json:"maxPrice"`
}

type ProductService interface {
	ListProducts(query ProductQuery) (*ProductPage, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	ListCategories() ([]model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	GetFilters() (*CatalogFilters, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(query ProductQuery) (*ProductPage, error) {
	filter := repository.ProductFilter{
		Brand:       query.Brand,
		Search:      query.Search,
		InStockOnly: query.InStockOnly,
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
		Sort:        query.Sort,
		Page:        query.Page,
		Limit:       query.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 12
	}

	if query.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(query.CategorySlug)
		if err != nil {
			logger.Warn("Product listing requested for unknown category", map[string]interface{}{
				"slug": query.CategorySlug,
			})
			return nil, ErrCategoryNotFound
		}
		ids, err := s.categoryRepo.SubtreeIDs(category.ID)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}

	products, total, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Data:       products,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *productService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *productService) GetFilters() (*CatalogFilters, error) {
	brands, err := s.productRepo.ListBrands()
	if err != nil {
		return nil, err
	}
	priceRange, err := s.productRepo.GetPriceRange()
	if err != nil {
		return nil, err
	}
	return &CatalogFilters{
		Brands:   brands,
		MinPrice: priceRange.Min,
		MaxPrice: priceRange.Max,
	}, nil
}
