package repositories

import (
	"context"

	"github.com/aslectra/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for preference data operations
type PreferenceRepository interface {
	GetPreferencesByUserID(ctx context.Context, userID uint) ([]models.Preference, error)
	GetCategoryIDsByUserID(ctx context.Context, userID uint) ([]uint, error)
	AddPreference(ctx context.Context, userID, categoryID uint) error
	RemovePreference(ctx context.Context, userID, categoryID uint) error
	SyncPreferences(ctx context.Context, userID uint, categoryIDs []uint) error
	GetUsersPreferringCategory(ctx context.Context, categoryID uint) ([]models.User, error)
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetPreferencesByUserID(ctx context.Context, userID uint) ([]models.Preference, error) {
	var preferences []models.Preference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("category_id").Find(&preferences).Error; err != nil {
		return nil, err
	}
	return preferences, nil
}

func (r *preferenceRepository) GetCategoryIDsByUserID(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Preference{}).Where("user_id = ?", userID).Order("category_id").Pluck("category_id", &ids).Error
	return ids, err
}

// AddPreference is a no-op when the pair already exists.
func (r *preferenceRepository) AddPreference(ctx context.Context, userID, categoryID uint) error {
	return addPreference(r.db.WithContext(ctx), userID, categoryID)
}

func (r *preferenceRepository) RemovePreference(ctx context.Context, userID, categoryID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND category_id = ?", userID, categoryID).Delete(&models.Preference{}).Error
}

// SyncPreferences makes categoryIDs the exact preference set of the user.
func (r *preferenceRepository) SyncPreferences(ctx context.Context, userID uint, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("user_id = ?", userID)
		if len(categoryIDs) > 0 {
			del = del.Where("category_id NOT IN ?", categoryIDs)
		}
		if err := del.Delete(&models.Preference{}).Error; err != nil {
			return err
		}
		for _, id := range categoryIDs {
			if err := addPreference(tx, userID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *preferenceRepository) GetUsersPreferringCategory(ctx context.Context, categoryID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN preferences ON preferences.user_id = users.id").
		Where("preferences.category_id = ?", categoryID).
		Order("users.id").
		Find(&users).Error
	return users, err
}

func addPreference(db *gorm.DB, userID, categoryID uint) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&models.Preference{UserID: userID, CategoryID: categoryID}).Error
}
