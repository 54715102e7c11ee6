package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/storage"
)

// Upload is an image submitted with an actuality or a comment.
type Upload struct {
	Reader      io.Reader
	ContentType string
}

// ActualityService creates, likes and deletes actualities.
type ActualityService interface {
	Create(ctx context.Context, author *models.User, category *models.Category, message string, image *Upload) (*models.Actuality, error)
	Comment(ctx context.Context, author *models.User, parentID uint, content string, image *Upload) (*models.Actuality, error)
	Like(ctx context.Context, userID, actualityID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type actualityService struct {
	actualities repositories.ActualityRepository
	likes       repositories.LikeRepository
	images      storage.ImageStore
	notifier    *Notifier
	logger      *slog.Logger
}

func NewActualityService(actualities repositories.ActualityRepository, likes repositories.LikeRepository, images storage.ImageStore, notifier *Notifier, logger *slog.Logger) ActualityService {
	return &actualityService{
		actualities: actualities,
		likes:       likes,
		images:      images,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create stores a top-level actuality, the image included, in one insert,
// then notifies the users preferring its category.
func (s *actualityService) Create(ctx context.Context, author *models.User, category *models.Category, message string, image *Upload) (*models.Actuality, error) {
	actuality := &models.Actuality{
		UserID:     author.ID,
		CategoryID: category.ID,
		Message:    message,
	}
	if err := s.insert(ctx, actuality, image); err != nil {
		return nil, err
	}

	if err := s.notifier.ActualityCreated(ctx, author, actuality, category); err != nil {
		s.logger.Error("failed to notify new actuality", "error", err, "actuality_id", actuality.ID)
	}
	return actuality, nil
}

// Comment replies to a top-level actuality. The comment takes the parent's
// category. Comments do not notify anyone.
func (s *actualityService) Comment(ctx context.Context, author *models.User, parentID uint, content string, image *Upload) (*models.Actuality, error) {
	parent, err := s.actualities.GetActualityByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	// threads are one level deep
	if parent.IsComment() {
		return nil, fmt.Errorf("reply to comment %d: %w", parentID, gorm.ErrRecordNotFound)
	}

	comment := &models.Actuality{
		UserID:      author.ID,
		CategoryID:  parent.CategoryID,
		ActualityID: &parent.ID,
		Message:     content,
	}
	if err := s.insert(ctx, comment, image); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *actualityService) insert(ctx context.Context, actuality *models.Actuality, image *Upload) error {
	if image != nil {
		ref, err := s.images.Save(ctx, image.Reader, image.ContentType)
		if err != nil {
			return err
		}
		actuality.Image = ref
	}

	if err := s.actualities.CreateActuality(ctx, actuality); err != nil {
		if actuality.Image != "" {
			if derr := s.images.Delete(context.WithoutCancel(ctx), actuality.Image); derr != nil {
				s.logger.Warn("failed to remove orphaned image", "error", derr, "image", actuality.Image)
			}
		}
		return fmt.Errorf("create actuality: %w", err)
	}
	return nil
}

// Like records userID's like once. It reports false when the user had
// already liked the actuality.
func (s *actualityService) Like(ctx context.Context, userID, actualityID uint) (bool, error) {
	if _, err := s.actualities.GetActualityByID(ctx, actualityID); err != nil {
		return false, err
	}
	return s.likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: userID, ActualityID: actualityID})
}

// Delete removes the actuality with its comments and likes, then the images
// they referenced.
func (s *actualityService) Delete(ctx context.Context, id uint) error {
	images, err := s.actualities.DeleteActuality(ctx, id)
	if err != nil {
		return err
	}
	for _, ref := range images {
		if err := s.images.Delete(ctx, ref); err != nil {
			s.logger.Warn("failed to remove image", "error", err, "image", ref)
		}
	}
	return nil
}
