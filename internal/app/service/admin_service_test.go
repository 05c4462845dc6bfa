package service

import (
	"strings"
	"testing"
	"time"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (AdminService, OrderService, CartService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	adminService := NewAdminService(orderRepo, productRepo, userRepo, categoryRepo)
	orderService := NewOrderService(orderRepo, cartRepo, testDB)
	cartService := NewCartService(cartRepo, productRepo)

	return adminService, orderService, cartService, testDB
}

func adminTestCustomer(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Customer",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestAdminService_CreateProduct(t *testing.T) {
	adminService, _, _, testDB := setupAdminServiceTest(t)

	category := model.Category{Name: "Amplifiers", Slug: "amplifiers"}
	require.NoError(t, testDB.Create(&category).Error)

	product, err := adminService.CreateProduct(ProductInput{
		Name:       "Blues Junior IV",
		Price:      699.99,
		Brand:      "Fender",
		StockCount: 6,
		CategoryID: category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "blues-junior-iv", product.Slug)
	assert.True(t, product.InStock)

	t.Run("Slug collision gets a suffix", func(t *testing.T) {
		second, err := adminService.CreateProduct(ProductInput{
			Name:       "Blues Junior IV",
			Price:      649.99,
			Brand:      "Fender",
			StockCount: 2,
			CategoryID: category.ID,
		})
		require.NoError(t, err)
		assert.NotEqual(t, product.Slug, second.Slug)
		assert.True(t, strings.HasPrefix(second.Slug, "blues-junior-iv-"))
	})

	t.Run("Unknown category", func(t *testing.T) {
		_, err := adminService.CreateProduct(ProductInput{
			Name:       "Ghost Amp",
			Price:      100,
			CategoryID: 99999,
		})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("Zero stock means not in stock", func(t *testing.T) {
		product, err := adminService.CreateProduct(ProductInput{
			Name:       "Sold Out Amp",
			Price:      100,
			StockCount: 0,
			CategoryID: category.ID,
		})
		require.NoError(t, err)
		assert.False(t, product.InStock)
	})
}

func TestAdminService_UpdateProduct(t *testing.T) {
	adminService, _, _, testDB := setupAdminServiceTest(t)

	category := model.Category{Name: "Amplifiers", Slug: "amplifiers"}
	require.NoError(t, testDB.Create(&category).Error)

	product, err := adminService.CreateProduct(ProductInput{
		Name:       "Katana-50",
		Price:      269.99,
		Brand:      "Boss",
		StockCount: 15,
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	t.Run("Price edit keeps the slug", func(t *testing.T) {
		updated, err := adminService.UpdateProduct(product.ID, ProductInput{
			Price:      249.99,
			StockCount: -1,
		})
		require.NoError(t, err)
		assert.Equal(t, 249.99, updated.Price)
		assert.Equal(t, "katana-50", updated.Slug)
		assert.Equal(t, 15, updated.StockCount)
	})

	t.Run("Rename regenerates the slug", func(t *testing.T) {
		updated, err := adminService.UpdateProduct(product.ID, ProductInput{
			Name:       "Katana-50 MkII",
			StockCount: -1,
		})
		require.NoError(t, err)
		assert.Equal(t, "katana-50-mkii", updated.Slug)
	})

	t.Run("Omitted compare-at price survives", func(t *testing.T) {
		compareAt := 299.99
		_, err := adminService.UpdateProduct(product.ID, ProductInput{
			CompareAtPrice: &compareAt,
			StockCount:     -1,
		})
		require.NoError(t, err)

		updated, err := adminService.UpdateProduct(product.ID, ProductInput{
			Price:      229.99,
			StockCount: -1,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CompareAtPrice)
		assert.Equal(t, 299.99, *updated.CompareAtPrice)
	})

	t.Run("Stock to zero flips availability", func(t *testing.T) {
		updated, err := adminService.UpdateProduct(product.ID, ProductInput{
			StockCount: 0,
		})
		require.NoError(t, err)
		assert.False(t, updated.InStock)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := adminService.UpdateProduct(99999, ProductInput{StockCount: -1})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestAdminService_DeleteProduct(t *testing.T) {
	adminService, _, _, testDB := setupAdminServiceTest(t)

	category := model.Category{Name: "Accessories", Slug: "accessories"}
	require.NoError(t, testDB.Create(&category).Error)
	product, err := adminService.CreateProduct(ProductInput{
		Name:       "Strap",
		Price:      25,
		StockCount: 10,
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, adminService.DeleteProduct(product.ID))
	assert.ErrorIs(t, adminService.DeleteProduct(product.ID), ErrProductNotFound)
}

func TestAdminService_GetDashboardStats(t *testing.T) {
	adminService, orderService, cartService, testDB := setupAdminServiceTest(t)

	category := model.Category{Name: "Test Gear", Slug: "test-gear"}
	require.NoError(t, testDB.Create(&category).Error)
	product := model.Product{
		Name:       "Popular Pedal",
		Slug:       "popular-pedal",
		Price:      100,
		InStock:    true,
		StockCount: 100,
		CategoryID: category.ID,
	}
	require.NoError(t, testDB.Create(&product).Error)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	buyer := adminTestCustomer(t, testDB, "buyer@example.com")

	// Two completed orders: subtotal 100 each, free shipping, 8 tax
	for i := 0; i < 2; i++ {
		_, err := cartService.AddItem(buyer.ID, product.ID, 1)
		require.NoError(t, err)
		_, err = orderService.CreateOrder(buyer.ID, ShippingAddress{
			Line1: "1 Test St", City: "Tbilisi", State: "Tbilisi", PostalCode: "0108", Country: "GE",
		})
		require.NoError(t, err)
	}

	// A cancelled order does not count toward revenue
	_, err := cartService.AddItem(buyer.ID, product.ID, 1)
	require.NoError(t, err)
	cancelled, err := orderService.CreateOrder(buyer.ID, ShippingAddress{
		Line1: "1 Test St", City: "Tbilisi", State: "Tbilisi", PostalCode: "0108", Country: "GE",
	})
	require.NoError(t, err)
	_, err = orderService.UpdateOrderStatus(cancelled.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	stats, err := adminService.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, 216.0, stats.TotalRevenue) // 2 x 108.00
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers) // admin accounts excluded
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.StatusDistribution["pending"])
	assert.Equal(t, int64(1), stats.StatusDistribution["cancelled"])
	assert.Len(t, stats.RecentOrders, 3)

	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, "Popular Pedal", stats.TopProducts[0].Product.Name)
	assert.Equal(t, int64(2), stats.TopProducts[0].UnitsSold) // cancelled units excluded

	require.Len(t, stats.MonthlySales, 12)
	current := stats.MonthlySales[len(stats.MonthlySales)-1]
	assert.Equal(t, 216.0, current.Revenue)
	assert.Equal(t, int64(2), current.Orders)

	// The window always spans the current month and the 11 before it,
	// including on month-end dates
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monthStart.Format("2006-01"), current.Month)
	assert.Equal(t, monthStart.AddDate(0, -11, 0).Format("2006-01"), stats.MonthlySales[0].Month)
}

func TestAdminService_ListCustomers(t *testing.T) {
	adminService, orderService, cartService, testDB := setupAdminServiceTest(t)

	category := model.Category{Name: "Test Gear", Slug: "test-gear"}
	require.NoError(t, testDB.Create(&category).Error)
	product := model.Product{
		Name:       "Pedal",
		Slug:       "pedal",
		Price:      50,
		InStock:    true,
		StockCount: 50,
		CategoryID: category.ID,
	}
	require.NoError(t, testDB.Create(&product).Error)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	buyer := adminTestCustomer(t, testDB, "buyer@example.com")
	adminTestCustomer(t, testDB, "quiet@example.com")

	_, err := cartService.AddItem(buyer.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = orderService.CreateOrder(buyer.ID, ShippingAddress{
		Line1: "1 Test St", City: "Tbilisi", State: "Tbilisi", PostalCode: "0108", Country: "GE",
	})
	require.NoError(t, err)

	page, err := adminService.ListCustomers(1, 10, "")
	require.NoError(t, err)

	// Admin accounts are not listed as customers
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Data, 2)

	byEmail := make(map[string]CustomerView)
	for _, customer := range page.Data {
		byEmail[customer.User.Email] = customer
	}
	assert.Equal(t, int64(1), byEmail["buyer@example.com"].OrderCount)
	// 50.00 subtotal hits the free shipping threshold, plus 4.00 tax
	assert.Equal(t, 54.0, byEmail["buyer@example.com"].TotalSpent)
	assert.Equal(t, int64(0), byEmail["quiet@example.com"].OrderCount)
}
