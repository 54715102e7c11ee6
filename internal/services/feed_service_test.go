package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/testutil"
)

func TestFeed_SportsAndTech(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewFeedService(
		repositories.NewActualityRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewPreferenceRepository(db),
	)

	u1 := testutil.CreateUser(t, db, "u1@example.com", models.RoleUser)
	sports := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	tech := testutil.CreateCategory(t, db, "Tech", "#00ff00")
	testutil.Prefer(t, db, u1.ID, sports.ID)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var sportIDs []uint
	for i := 0; i < 3; i++ {
		a := testutil.CreateActuality(t, db, u1.ID, sports.ID, "sport", base.Add(time.Duration(i)*time.Minute))
		sportIDs = append(sportIDs, a.ID)
	}
	testutil.CreateActuality(t, db, u1.ID, tech.ID, "tech", base.Add(time.Hour))

	page, err := svc.Feed(ctx, u1.ID, nil, 1)
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, sportIDs[2], page.Items[0].ID)
	assert.Equal(t, sportIDs[1], page.Items[1].ID)
	assert.Equal(t, sportIDs[0], page.Items[2].ID)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.LastPage)

	require.Len(t, page.Categories, 2)
	assert.Equal(t, models.CategorySummary{Name: "Sports", Color: "#ff0000", ID: sports.ID, TotalActualities: 3, Preference: true}, page.Categories[0])
	assert.Equal(t, models.CategorySummary{Name: "Tech", Color: "#00ff00", ID: tech.ID, TotalActualities: 1, Preference: false}, page.Categories[1])
}

func TestFeed_PageBelowOneIsFirstPage(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFeedService(
		repositories.NewActualityRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewPreferenceRepository(db),
	)
	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)

	page, err := svc.Feed(context.Background(), user.ID, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Categories)
}

func TestCategorySummaries_PreferredEmptyCategory(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFeedService(
		repositories.NewActualityRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewPreferenceRepository(db),
	)
	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	empty := testutil.CreateCategory(t, db, "Vide", "#123456")
	testutil.Prefer(t, db, user.ID, empty.ID)

	summaries, err := svc.CategorySummaries(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].Preference)
	assert.Zero(t, summaries[0].TotalActualities)
}

func TestApplyPreferenceFlags(t *testing.T) {
	summaries := []models.CategorySummary{{ID: 1}, {ID: 2}, {ID: 3}}

	out := ApplyPreferenceFlags(summaries, []uint{3, 1, 1})
	assert.True(t, out[0].Preference)
	assert.False(t, out[1].Preference)
	assert.True(t, out[2].Preference)

	out = ApplyPreferenceFlags(summaries, nil)
	for _, s := range out {
		assert.False(t, s.Preference)
	}
}
