package repositories

import (
	"context"

	"github.com/aslectra/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedFilter selects which top-level actualities appear in a feed. Without a
// category, only categories preferred by UserID are included.
type FeedFilter struct {
	UserID     uint
	CategoryID *uint
}

// ActualityRepository defines the interface for actuality data operations
type ActualityRepository interface {
	CreateActuality(ctx context.Context, actuality *models.Actuality) error
	GetActualityByID(ctx context.Context, id uint) (*models.Actuality, error)
	GetFeed(ctx context.Context, filter FeedFilter, page, perPage int) ([]models.FeedItem, int64, error)
	DeleteActuality(ctx context.Context, id uint) ([]string, error)
}

type actualityRepository struct {
	db    *gorm.DB
	likes LikeRepository
}

func NewActualityRepository(db *gorm.DB) ActualityRepository {
	return &actualityRepository{db: db, likes: NewLikeRepository(db)}
}

func (r *actualityRepository) CreateActuality(ctx context.Context, actuality *models.Actuality) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(actuality).Error
}

func (r *actualityRepository) GetActualityByID(ctx context.Context, id uint) (*models.Actuality, error) {
	var actuality models.Actuality
	if err := r.db.WithContext(ctx).Preload("User").First(&actuality, id).Error; err != nil {
		return nil, err
	}
	return &actuality, nil
}

func feedScope(filter FeedFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Table("actualities").
			Joins("JOIN users ON users.id = actualities.user_id").
			Joins("JOIN categories ON categories.id = actualities.category_id").
			Where("actualities.actuality_id IS NULL")
		if filter.CategoryID != nil {
			return db.Where("categories.id = ?", *filter.CategoryID)
		}
		return db.Joins("JOIN preferences ON preferences.category_id = categories.id").
			Where("preferences.user_id = ?", filter.UserID)
	}
}

// GetFeed returns one page of top-level actualities, newest first, with
// their likes and comments loaded, plus the total number of matching rows.
func (r *actualityRepository) GetFeed(ctx context.Context, filter FeedFilter, page, perPage int) ([]models.FeedItem, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Scopes(feedScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []models.FeedItem{}
	if total == 0 {
		return items, 0, nil
	}

	err := db.Scopes(feedScope(filter)).
		Select("actualities.id, actualities.actuality_id, actualities.category_id, actualities.message, " +
			"actualities.image, actualities.created_at, categories.name AS category, categories.color, " +
			"users.name, users.forename, users.avatar, users.id AS user_id").
		Order("actualities.created_at DESC, actualities.id DESC").
		Offset(models.NewPagination(page, perPage, total).Offset()).
		Limit(perPage).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.loadRelations(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *actualityRepository) loadRelations(ctx context.Context, items []models.FeedItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	index := make(map[uint]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
		index[item.ID] = i
		items[i].Likes = []models.Like{}
		items[i].Comments = []models.Actuality{}
	}

	likes, err := r.likes.GetLikesByActualityIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, l := range likes {
		i := index[l.ActualityID]
		items[i].Likes = append(items[i].Likes, l)
	}

	var comments []models.Actuality
	if err := r.db.WithContext(ctx).Preload("User").Where("actuality_id IN ?", ids).Order("created_at, id").Find(&comments).Error; err != nil {
		return err
	}
	for _, c := range comments {
		i := index[*c.ActualityID]
		items[i].Comments = append(items[i].Comments, c)
	}
	return nil
}

// DeleteActuality removes an actuality together with its comments, the likes
// on both and the notifications pointing at them. It returns the image
// references of the removed rows so the caller can drop the stored files.
func (r *actualityRepository) DeleteActuality(ctx context.Context, id uint) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var actuality models.Actuality
		if err := tx.First(&actuality, id).Error; err != nil {
			return err
		}

		var comments []models.Actuality
		if err := tx.Select("id, image").Where("actuality_id = ?", id).Find(&comments).Error; err != nil {
			return err
		}
		ids := []uint{id}
		if actuality.Image != "" {
			images = append(images, actuality.Image)
		}
		for _, c := range comments {
			ids = append(ids, c.ID)
			if c.Image != "" {
				images = append(images, c.Image)
			}
		}

		if err := tx.Where("actuality_id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("actuality_id IN ?", ids).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("actuality_id = ?", id).Delete(&models.Actuality{}).Error; err != nil {
			return err
		}
		return tx.Delete(&actuality).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
