package service

import (
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"github.com/gmaisuradze997/guitar-shop/pkg/util"
)

// TopProduct is one row of the best-sellers board.
type TopProduct struct {
	Product   model.Product `json:"product"`
	UnitsSold int64         `json:"unitsSold"`
}

// DashboardStats is the admin analytics snapshot.
type DashboardStats struct {
	TotalRevenue       float64                   `json:"totalRevenue"`
	TotalOrders        int64                     `json:"totalOrders"`
	TotalCustomers     int64                     `json:"totalCustomers"`
	TotalProducts      int64                     `json:"totalProducts"`
	StatusDistribution map[string]int64          `json:"statusDistribution"`
	RecentOrders       []model.Order             `json:"recentOrders"`
	TopProducts        []TopProduct              `json:"topProducts"`
	MonthlySales       []repository.MonthlySales `json:"monthlySales"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name           string
	Description    string
	Price          float64
	CompareAtPrice *float64
	Brand          string
	Images         []string
	StockCount     int
	CategoryID     uint
}

// CustomerPage is a paginated admin customer listing.
type CustomerPage struct {
	Data       []CustomerView `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// CustomerView is a user with their order and review aggregates.
type CustomerView struct {
	User        model.User `json:"user"`
	OrderCount  int64      `json:"orderCount"`
	TotalSpent  float64    `json:"totalSpent"`
	ReviewCount int64      `json:"reviewCount"`
}

type AdminService interface {
	GetDashboardStats() (*DashboardStats, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	ListCustomers(page, limit int, search string) (*CustomerPage, error)
}

type adminService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

func NewAdminService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
) AdminService {
	return &adminService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *adminService) GetDashboardStats() (*DashboardStats, error) {
	revenue, err := s.orderRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	orderCount, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	customerCount, err := s.userRepo.CountCustomers()
	if err != nil {
		return nil, err
	}
	productCount, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}

	distribution, err := s.orderRepo.StatusDistribution()
	if err != nil {
		return nil, err
	}
	statusMap := make(map[string]int64, len(distribution))
	for _, bucket := range distribution {
		statusMap[string(bucket.Status)] = bucket.Count
	}

	recent, err := s.orderRepo.Recent(5)
	if err != nil {
		return nil, err
	}

	products, units, err := s.productRepo.TopSelling(5)
	if err != nil {
		return nil, err
	}
	topProducts := make([]TopProduct, 0, len(products))
	for i := range products {
		topProducts = append(topProducts, TopProduct{
			Product:   products[i],
			UnitsSold: units[i],
		})
	}

	monthly, err := s.orderRepo.MonthlySales(12)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalRevenue:       util.Round2(revenue),
		TotalOrders:        orderCount,
		TotalCustomers:     customerCount,
		TotalProducts:      productCount,
		StatusDistribution: statusMap,
		RecentOrders:       recent,
		TopProducts:        topProducts,
		MonthlySales:       monthly,
	}, nil
}

func (s *adminService) CreateProduct(input ProductInput) (*model.Product, error) {
	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		return nil, ErrCategoryNotFound
	}

	slug, err := s.uniqueSlug(input.Name)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:           input.Name,
		Slug:           slug,
		Description:    input.Description,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		Brand:          input.Brand,
		Images:         input.Images,
		InStock:        input.StockCount > 0,
		StockCount:     input.StockCount,
		CategoryID:     input.CategoryID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *adminService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}

	// The slug is regenerated only when the name changes, so product
	// URLs stay stable across price and stock edits.
	if input.Name != "" && input.Name != product.Name {
		slug, err := s.uniqueSlug(input.Name)
		if err != nil {
			return nil, err
		}
		product.Name = input.Name
		product.Slug = slug
	}

	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = input.CompareAtPrice
	}
	if input.Brand != "" {
		product.Brand = input.Brand
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.StockCount >= 0 {
		product.StockCount = input.StockCount
		product.InStock = input.StockCount > 0
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *adminService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *adminService) ListCustomers(page, limit int, search string) (*CustomerPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	summaries, total, err := s.userRepo.ListCustomers(page, limit, search)
	if err != nil {
		return nil, err
	}

	customers := make([]CustomerView, 0, len(summaries))
	for _, summary := range summaries {
		customers = append(customers, CustomerView{
			User:        summary.User,
			OrderCount:  summary.OrderCount,
			TotalSpent:  util.Round2(summary.TotalSpent),
			ReviewCount: summary.ReviewCount,
		})
	}

	return &CustomerPage{
		Data:       customers,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *adminService) uniqueSlug(name string) (string, error) {
	slug := util.Slugify(name)
	exists, err := s.productRepo.SlugExists(slug)
	if err != nil {
		return "", err
	}
	if exists {
		slug = util.SlugWithSuffix(slug)
	}
	return slug, nil
}
