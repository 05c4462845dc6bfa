package service

import (
	"testing"

	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/app/repository"
	"github.com/gmaisuradze997/guitar-shop/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	wishlistRepo := repository.NewWishlistRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	wishlistService := NewWishlistService(wishlistRepo, productRepo)

	user := &model.User{
		Email:        "wisher@example.com",
		PasswordHash: "hash",
		FirstName:    "Wanda",
		LastName:     "Wisher",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "Bass Guitars", Slug: "bass-guitars"}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:       "Player Jazz Bass",
		Slug:       "player-jazz-bass",
		Price:      874.99,
		InStock:    true,
		StockCount: 5,
		CategoryID: category.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	return wishlistService, user, product, testDB
}

func TestWishlistService_Toggle(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	inWishlist, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, inWishlist)

	items, err := wishlistService.GetWishlist(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Player Jazz Bass", items[0].Product.Name)

	// Toggling again removes it
	inWishlist, err = wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, inWishlist)

	items, err = wishlistService.GetWishlist(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestWishlistService_Toggle_UnknownProduct(t *testing.T) {
	wishlistService, user, _, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Toggle(user.ID, 99999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_AddItem_Idempotent(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddItem(user.ID, product.ID)
	require.NoError(t, err)

	items, err := wishlistService.AddItem(user.ID, product.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWishlistService_RemoveItem(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddItem(user.ID, product.ID)
	require.NoError(t, err)

	items, err := wishlistService.RemoveItem(user.ID, product.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	_, err = wishlistService.RemoveItem(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}

func TestWishlistService_Contains(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	inWishlist, err := wishlistService.Contains(user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, inWishlist)

	_, err = wishlistService.AddItem(user.ID, product.ID)
	require.NoError(t, err)

	inWishlist, err = wishlistService.Contains(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, inWishlist)
}

func TestWishlistService_PerUserIsolation(t *testing.T) {
	wishlistService, user, product, testDB := setupWishlistServiceTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		FirstName:    "Oscar",
		LastName:     "Other",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(other).Error)

	_, err := wishlistService.AddItem(user.ID, product.ID)
	require.NoError(t, err)

	items, err := wishlistService.GetWishlist(other.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}
