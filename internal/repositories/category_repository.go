package repositories

import (
	"context"

	apperrors "github.com/aslectra/backend/internal/errors"
	"github.com/aslectra/backend/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	GetSummaries(ctx context.Context) ([]models.CategorySummary, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategories returns categories by their explicit rank, then name.
func (r *categoryRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("sort_order, name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes a category and the preferences pointing at it.
// Categories still holding actualities are refused with ErrCategoryNotEmpty.
func (r *categoryRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Actuality{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrCategoryNotEmpty
		}

		if err := tx.Where("category_id = ?", id).Delete(&models.Preference{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// GetSummaries lists every category with its number of top-level
// actualities, ordered by name. Empty categories are kept by the outer join.
func (r *categoryRepository) GetSummaries(ctx context.Context) ([]models.CategorySummary, error) {
	var summaries []models.CategorySummary
	err := r.db.WithContext(ctx).Table("categories").
		Select("categories.name, categories.color, categories.id, COUNT(actualities.id) AS total_actualities").
		Joins("LEFT JOIN actualities ON actualities.category_id = categories.id AND actualities.actuality_id IS NULL").
		Group("categories.name, categories.color, categories.id").
		Order("categories.name, categories.id").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
