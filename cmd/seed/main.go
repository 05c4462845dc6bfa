package main

import (
	"errors"

	"github.com/gmaisuradze997/guitar-shop/config"
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/internal/db"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"github.com/gmaisuradze997/guitar-shop/pkg/util"
	"gorm.io/gorm"
)

// Seeds the database with an admin account, the category tree and a
// demo catalog. Safe to run repeatedly: existing rows are left alone.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	gdb := db.GetDB()

	if err := seedAdmin(gdb); err != nil {
		logger.Fatal("Failed to seed admin user", err)
	}
	categories, err := seedCategories(gdb)
	if err != nil {
		logger.Fatal("Failed to seed categories", err)
	}
	if err := seedProducts(gdb, categories); err != nil {
		logger.Fatal("Failed to seed products", err)
	}

	logger.Info("Seeding completed")
}

func seedAdmin(gdb *gorm.DB) error {
	var existing model.User
	err := gdb.Where("email = ?", "admin@guitarshop.dev").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}
	admin := model.User{
		Email:        "admin@guitarshop.dev",
		PasswordHash: hash,
		FirstName:    "Shop",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user created", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}

type categorySeed struct {
	Name     string
	Children []string
}

var categoryTree = []categorySeed{
	{Name: "Electric Guitars"},
	{Name: "Acoustic Guitars"},
	{Name: "Bass Guitars"},
	{Name: "Amplifiers"},
	{Name: "Effects Pedals", Children: []string{"Distortion", "Delay", "Reverb", "Modulation"}},
	{Name: "Accessories"},
}

func seedCategories(gdb *gorm.DB) (map[string]uint, error) {
	bySlug := make(map[string]uint)

	upsert := func(name string, parentID *uint) (uint, error) {
		slug := util.Slugify(name)
		var existing model.Category
		err := gdb.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			bySlug[slug] = existing.ID
			return existing.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		category := model.Category{Name: name, Slug: slug, ParentID: parentID}
		if err := gdb.Create(&category).Error; err != nil {
			return 0, err
		}
		bySlug[slug] = category.ID
		return category.ID, nil
	}

	for _, seed := range categoryTree {
		parentID, err := upsert(seed.Name, nil)
		if err != nil {
			return nil, err
		}
		for _, child := range seed.Children {
			if _, err := upsert(child, &parentID); err != nil {
				return nil, err
			}
		}
	}

	return bySlug, nil
}

type productSeed struct {
	Name         string
	Description  string
	Price        float64
	Brand        string
	StockCount   int
	CategorySlug string
}

var demoCatalog = []productSeed{
	{"Player Stratocaster", "Alder body, maple neck, classic single-coil tone.", 849.99, "Fender", 12, "electric-guitars"},
	{"Les Paul Standard 60s", "Mahogany body with AA figured maple top.", 2799.00, "Gibson", 4, "electric-guitars"},
	{"Pacifica 112V", "Versatile HSS starter guitar with solid build quality.", 329.99, "Yamaha", 25, "electric-guitars"},
	{"D-28 Dreadnought", "The flagship rosewood dreadnought.", 3199.00, "Martin", 3, "acoustic-guitars"},
	{"FG800", "Best-selling solid-top acoustic for beginners.", 219.99, "Yamaha", 30, "acoustic-guitars"},
	{"Player Jazz Bass", "Two single-coil pickups, slim C-profile neck.", 874.99, "Fender", 8, "bass-guitars"},
	{"SR500E", "Lightweight nyatoh body with Bartolini pickups.", 599.99, "Ibanez", 10, "bass-guitars"},
	{"Katana-50 MkII", "50 watt modelling combo with five amp characters.", 269.99, "Boss", 15, "amplifiers"},
	{"Blues Junior IV", "15 watt all-tube combo, the pedal platform classic.", 699.99, "Fender", 6, "amplifiers"},
	{"DS-1 Distortion", "The orange classic since 1978.", 62.99, "Boss", 40, "distortion"},
	{"Tube Screamer TS9", "The green overdrive heard on countless records.", 104.99, "Ibanez", 22, "distortion"},
	{"Carbon Copy", "Analog delay with up to 600ms of warm repeats.", 149.99, "MXR", 18, "delay"},
	{"Holy Grail Neo", "Spring, hall and plate in a compact box.", 139.99, "Electro-Harmonix", 14, "reverb"},
	{"Tortex Picks 12-Pack", "0.73mm yellow, the standard.", 5.49, "Dunlop", 200, "accessories"},
	{"Ernie Ball Regular Slinky", "10-46 nickel wound set.", 6.99, "Ernie Ball", 150, "accessories"},
}

func seedProducts(gdb *gorm.DB, categories map[string]uint) error {
	for _, seed := range demoCatalog {
		slug := util.Slugify(seed.Name)

		var existing model.Product
		err := gdb.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		categoryID, ok := categories[seed.CategorySlug]
		if !ok {
			logger.Warn("Skipping product with unknown category", map[string]interface{}{
				"product":  seed.Name,
				"category": seed.CategorySlug,
			})
			continue
		}

		product := model.Product{
			Name:        seed.Name,
			Slug:        slug,
			Description: seed.Description,
			Price:       seed.Price,
			Brand:       seed.Brand,
			Images:      []string{"/images/products/" + slug + ".jpg"},
			InStock:     seed.StockCount > 0,
			StockCount:  seed.StockCount,
			CategoryID:  categoryID,
		}
		if err := gdb.Create(&product).Error; err != nil {
			return err
		}
	}

	logger.Info("Demo catalog seeded", map[string]interface{}{
		"products": len(demoCatalog),
	})
	return nil
}
