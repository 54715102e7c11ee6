package repositories

import (
	"context"

	"github.com/aslectra/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLikeIfAbsent(ctx context.Context, like *models.Like) (bool, error)
	GetLikesByActualityIDs(ctx context.Context, actualityIDs []uint) ([]models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a gorm-backed LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// CreateLikeIfAbsent inserts the like unless the (user, actuality) pair already
// exists. The unique index decides, so concurrent requests cannot both win.
// It reports whether a row was written.
func (r *likeRepository) CreateLikeIfAbsent(ctx context.Context, like *models.Like) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "actuality_id"}},
			DoNothing: true,
		}).
		Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) GetLikesByActualityIDs(ctx context.Context, actualityIDs []uint) ([]models.Like, error) {
	var likes []models.Like
	if len(actualityIDs) == 0 {
		return likes, nil
	}
	if err := r.db.WithContext(ctx).Where("actuality_id IN ?", actualityIDs).Order("id").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}
