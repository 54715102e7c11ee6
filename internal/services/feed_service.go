package services

import (
	"context"
	"fmt"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
)

// PerPage is the number of actualities shown on one feed page.
const PerPage = 15

// FeedPage is everything the feed view needs for one request.
type FeedPage struct {
	Items      []models.FeedItem        `json:"data"`
	Pagination models.Pagination        `json:"meta"`
	Categories []models.CategorySummary `json:"categories"`
	CategoryID *uint                    `json:"category_id,omitempty"`
}

// FeedService builds personalized and per-category feeds.
type FeedService interface {
	Feed(ctx context.Context, userID uint, categoryID *uint, page int) (*FeedPage, error)
	CategorySummaries(ctx context.Context, userID uint) ([]models.CategorySummary, error)
}

type feedService struct {
	actualities repositories.ActualityRepository
	categories  repositories.CategoryRepository
	preferences repositories.PreferenceRepository
}

func NewFeedService(actualities repositories.ActualityRepository, categories repositories.CategoryRepository, preferences repositories.PreferenceRepository) FeedService {
	return &feedService{
		actualities: actualities,
		categories:  categories,
		preferences: preferences,
	}
}

// Feed returns one page of top-level actualities. Without a category only
// the categories preferred by userID are shown.
func (s *feedService) Feed(ctx context.Context, userID uint, categoryID *uint, page int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.actualities.GetFeed(ctx, repositories.FeedFilter{UserID: userID, CategoryID: categoryID}, page, PerPage)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	summaries, err := s.CategorySummaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Items:      items,
		Pagination: models.NewPagination(page, PerPage, total),
		Categories: summaries,
		CategoryID: categoryID,
	}, nil
}

// CategorySummaries lists every category with its post count and whether
// userID prefers it.
func (s *feedService) CategorySummaries(ctx context.Context, userID uint) ([]models.CategorySummary, error) {
	summaries, err := s.categories.GetSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category summaries: %w", err)
	}
	preferred, err := s.preferences.GetCategoryIDsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return ApplyPreferenceFlags(summaries, preferred), nil
}

// ApplyPreferenceFlags marks the summaries whose category is in preferred.
// A category is flagged even when it has no actualities.
func ApplyPreferenceFlags(summaries []models.CategorySummary, preferred []uint) []models.CategorySummary {
	set := make(map[uint]struct{}, len(preferred))
	for _, id := range preferred {
		set[id] = struct{}{}
	}
	for i := range summaries {
		_, summaries[i].Preference = set[summaries[i].ID]
	}
	return summaries
}
