package repository

import (
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	// SubtreeIDs returns the category's own ID plus the IDs of its
	// direct children. The catalog is only two levels deep.
	SubtreeIDs(id uint) ([]uint, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Preload("Children").
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find categories", err, nil)
		return nil, err
	}

	for i := range categories {
		ids, err := r.SubtreeIDs(categories[i].ID)
		if err != nil {
			return nil, err
		}
		var count int64
		if err := r.db.Model(&model.Product{}).Where("category_id IN ?", ids).Count(&count).Error; err != nil {
			return nil, err
		}
		categories[i].ProductCount = count
	}

	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Children").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Children").Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) SubtreeIDs(id uint) ([]uint, error) {
	ids := []uint{id}

	var childIDs []uint
	err := r.db.Model(&model.Category{}).
		Where("parent_id = ?", id).
		Pluck("id", &childIDs).Error
	if err != nil {
		return nil, err
	}

	return append(ids, childIDs...), nil
}
