package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewProductService(productRepo, categoryRepo), testDB
}

func seedCatalog(t *testing.T, testDB *gorm.DB) (model.Category, model.Category) {
	t.Helper()

	pedals := model.Category{Name: "Effects Pedals", Slug: "effects-pedals"}
	require.NoError(t, testDB.Create(&pedals).Error)
	distortion := model.Category{Name: "Distortion", Slug: "distortion", ParentID: &pedals.ID}
	require.NoError(t, testDB.Create(&distortion).Error)

	products := []model.Product{
		{Name: "DS-1 Distortion", Slug: "ds-1-distortion", Brand: "Boss", Price: 62.99, Description: "The orange classic", InStock: true, StockCount: 10, CategoryID: distortion.ID},
		{Name: "Tube Screamer", Slug: "tube-screamer", Brand: "Ibanez", Price: 104.99, Description: "Green overdrive", InStock: true, StockCount: 5, CategoryID: distortion.ID},
		{Name: "Carbon Copy", Slug: "carbon-copy", Brand: "MXR", Price: 149.99, Description: "Analog delay", InStock: false, StockCount: 0, CategoryID: pedals.ID},
	}
	for i := range products {
		// Spread creation times so the newest sort is deterministic
		products[i].CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, testDB.Create(&products[i]).Error)
	}

	return pedals, distortion
}

func TestProductService_ListProducts_Pagination(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	page, err := productService.ListProducts(ProductQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page2, err := productService.ListProducts(ProductQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 1)
}

func TestProductService_ListProducts_CategoryIncludesChildren(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	// Parent slug picks up products in the child category too
	page, err := productService.ListProducts(ProductQuery{CategorySlug: "effects-pedals", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	child, err := productService.ListProducts(ProductQuery{CategorySlug: "distortion", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), child.Total)

	_, err = productService.ListProducts(ProductQuery{CategorySlug: "does-not-exist"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductService_ListProducts_Search(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	tests := []struct {
		name   string
		search string
		want   int64
	}{
		{"Matches name case-insensitively", "tube screamer", 1},
		{"Matches brand", "boss", 1},
		{"Matches description", "overdrive", 1},
		{"No match", "theremin", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := productService.ListProducts(ProductQuery{Search: tt.search, Page: 1, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Total)
		})
	}
}

func TestProductService_ListProducts_Filters(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	t.Run("In stock only", func(t *testing.T) {
		page, err := productService.ListProducts(ProductQuery{InStockOnly: true, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("Price range", func(t *testing.T) {
		min, max := 100.0, 200.0
		page, err := productService.ListProducts(ProductQuery{MinPrice: &min, MaxPrice: &max, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("Brand", func(t *testing.T) {
		page, err := productService.ListProducts(ProductQuery{Brand: "Boss", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestProductService_ListProducts_Sort(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	t.Run("Price ascending", func(t *testing.T) {
		page, err := productService.ListProducts(ProductQuery{Sort: "price-asc", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, "DS-1 Distortion", page.Data[0].Name)
		assert.Equal(t, "Carbon Copy", page.Data[2].Name)
	})

	t.Run("Name descending", func(t *testing.T) {
		page, err := productService.ListProducts(ProductQuery{Sort: "name-desc", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, "Tube Screamer", page.Data[0].Name)
	})

	t.Run("Newest is the default", func(t *testing.T) {
		page, err := productService.ListProducts(ProductQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, "Carbon Copy", page.Data[0].Name)
	})
}

func TestProductService_GetProductBySlug(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	product, err := productService.GetProductBySlug("ds-1-distortion")
	require.NoError(t, err)
	assert.Equal(t, "DS-1 Distortion", product.Name)
	assert.Equal(t, "Distortion", product.Category.Name)

	_, err = productService.GetProductBySlug("no-such-pedal")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ListCategories_ProductCounts(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	categories, err := productService.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1) // only top-level categories

	assert.Equal(t, "Effects Pedals", categories[0].Name)
	assert.Len(t, categories[0].Children, 1)
	assert.Equal(t, int64(3), categories[0].ProductCount)
}

func TestProductService_GetFilters(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)
	seedCatalog(t, testDB)

	filters, err := productService.GetFilters()
	require.NoError(t, err)
	assert.Equal(t, []string{"Boss", "Ibanez", "MXR"}, filters.Brands)
	assert.Equal(t, 62.99, filters.MinPrice)
	assert.Equal(t, 149.99, filters.MaxPrice)
}

func TestProductService_ListProducts_LimitClamped(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	category := model.Category{Name: "Amplifiers", Slug: "amplifiers"}
	require.NoError(t, testDB.Create(&category).Error)
	for i := 0; i < 3; i++ {
		product := model.Product{
			Name:       fmt.Sprintf("Amp %d", i),
			Slug:       fmt.Sprintf("amp-%d", i),
			Price:      100,
			InStock:    true,
			StockCount: 1,
			CategoryID: category.ID,
		}
		require.NoError(t, testDB.Create(&product).Error)
	}

	page, err := productService.ListProducts(ProductQuery{Page: 1, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Limit)
}
