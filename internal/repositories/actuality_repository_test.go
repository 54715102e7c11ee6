package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetFeed_PersonalizedByPreferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)

	u1 := testutil.CreateUser(t, db, "u1@example.com", models.RoleUser)
	sports := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	tech := testutil.CreateCategory(t, db, "Tech", "#0000ff")
	testutil.Prefer(t, db, u1.ID, sports.ID)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s1 := testutil.CreateActuality(t, db, u1.ID, sports.ID, "s1", base)
	s2 := testutil.CreateActuality(t, db, u1.ID, sports.ID, "s2", base.Add(time.Hour))
	s3 := testutil.CreateActuality(t, db, u1.ID, sports.ID, "s3", base.Add(2*time.Hour))
	testutil.CreateActuality(t, db, u1.ID, tech.ID, "t1", base.Add(3*time.Hour))
	testutil.CreateComment(t, db, u1.ID, s1, "a comment")

	items, total, err := repo.GetFeed(ctx, repositories.FeedFilter{UserID: u1.ID}, 1, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{s3.ID, s2.ID, s1.ID}, []uint{items[0].ID, items[1].ID, items[2].ID})

	assert.Equal(t, "Sports", items[0].Category)
	assert.Equal(t, "#ff0000", items[0].Color)
	assert.Equal(t, u1.Forename, items[0].Forename)
	assert.Equal(t, u1.ID, items[0].UserID)
	require.Len(t, items[2].Comments, 1)
	assert.Equal(t, "a comment", items[2].Comments[0].Message)
	assert.Equal(t, u1.ID, items[2].Comments[0].User.ID)
}

func TestGetFeed_LoadsLikes(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)
	likes := repositories.NewLikeRepository(db)

	u1 := testutil.CreateUser(t, db, "u1@example.com", models.RoleUser)
	u2 := testutil.CreateUser(t, db, "u2@example.com", models.RoleUser)
	cat := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	liked := testutil.CreateActuality(t, db, u1.ID, cat.ID, "liked", time.Now().Add(-time.Minute))
	testutil.CreateActuality(t, db, u1.ID, cat.ID, "ignored", time.Now())
	for _, u := range []*models.User{u1, u2} {
		_, err := likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: u.ID, ActualityID: liked.ID})
		require.NoError(t, err)
	}

	items, _, err := repo.GetFeed(ctx, repositories.FeedFilter{CategoryID: &cat.ID}, 1, 15)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Empty(t, items[0].Likes)
	require.Len(t, items[1].Likes, 2)
	assert.Equal(t, []uint{u1.ID, u2.ID}, []uint{items[1].Likes[0].UserID, items[1].Likes[1].UserID})
}

func TestGetFeed_ByCategoryIgnoresPreferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)

	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	tech := testutil.CreateCategory(t, db, "Tech", "#0000ff")
	testutil.CreateActuality(t, db, user.ID, tech.ID, "t1", time.Now())

	items, total, err := repo.GetFeed(ctx, repositories.FeedFilter{UserID: user.ID}, 1, 15)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	items, total, err = repo.GetFeed(ctx, repositories.FeedFilter{UserID: user.ID, CategoryID: &tech.ID}, 1, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Likes)
}

func TestGetFeed_Pagination(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)

	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	cat := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 17; i++ {
		testutil.CreateActuality(t, db, user.ID, cat.ID, "post", base.Add(time.Duration(i)*time.Second))
	}

	first, total, err := repo.GetFeed(ctx, repositories.FeedFilter{CategoryID: &cat.ID}, 1, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(17), total)
	assert.Len(t, first, 15)

	second, _, err := repo.GetFeed(ctx, repositories.FeedFilter{CategoryID: &cat.ID}, 2, 15)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.True(t, second[0].CreatedAt.Before(first[14].CreatedAt))
}

func TestGetFeed_TiesOrderedByIDDesc(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)

	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	cat := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := testutil.CreateActuality(t, db, user.ID, cat.ID, "a", at)
	b := testutil.CreateActuality(t, db, user.ID, cat.ID, "b", at)

	items, _, err := repo.GetFeed(ctx, repositories.FeedFilter{CategoryID: &cat.ID}, 1, 15)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestDeleteActuality_Cascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)
	likes := repositories.NewLikeRepository(db)

	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	cat := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	post := testutil.CreateActuality(t, db, user.ID, cat.ID, "post", time.Now())
	require.NoError(t, db.Model(post).Update("image", "img-1").Error)
	comment := testutil.CreateComment(t, db, user.ID, post, "comment")

	_, err := likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: user.ID, ActualityID: post.ID})
	require.NoError(t, err)
	_, err = likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: user.ID, ActualityID: comment.ID})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Notification{
		Type: models.NotificationActualityCreated, ActorID: user.ID, RecipientID: user.ID, ActualityID: post.ID,
	}).Error)

	images, err := repo.DeleteActuality(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"img-1"}, images)

	_, err = repo.GetActualityByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetActualityByID(ctx, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&models.Like{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteActuality_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewActualityRepository(db)

	_, err := repo.DeleteActuality(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
