package repository

import (
	"github.com/gmaisuradze997/guitar-shop/internal/app/model"
	"github.com/gmaisuradze997/guitar-shop/pkg/logger"
	"gorm.io/gorm"
)

// CustomerSummary is a user row augmented with order and review
// aggregates, used by the admin customer listing.
type CustomerSummary struct {
	User        model.User
	OrderCount  int64
	TotalSpent  float64
	ReviewCount int64
}

type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	ExistsByEmail(email string) (bool, error)
	CountCustomers() (int64, error)
	ListCustomers(page, limit int, search string) ([]CustomerSummary, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CountCustomers() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("role = ?", model.RoleCustomer).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) ListCustomers(page, limit int, search string) ([]CustomerSummary, int64, error) {
	query := r.db.Model(&model.User{}).Where("role = ?", model.RoleCustomer)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to list customers", err, nil)
		return nil, 0, err
	}

	summaries := make([]CustomerSummary, 0, len(users))
	for _, u := range users {
		var agg struct {
			OrderCount int64
			TotalSpent float64
		}
		err := r.db.Model(&model.Order{}).
			Select("COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total_spent").
			Where("user_id = ? AND status <> ?", u.ID, model.OrderStatusCancelled).
			Scan(&agg).Error
		if err != nil {
			return nil, 0, err
		}

		var reviewCount int64
		if err := r.db.Model(&model.Review{}).Where("user_id = ?", u.ID).Count(&reviewCount).Error; err != nil {
			return nil, 0, err
		}

		summaries = append(summaries, CustomerSummary{
			User:        u,
			OrderCount:  agg.OrderCount,
			TotalSpent:  agg.TotalSpent,
			ReviewCount: reviewCount,
		})
	}

	return summaries, total, nil
}
