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
)

func TestCreateLikeIfAbsent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewLikeRepository(db)

	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	cat := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	post := testutil.CreateActuality(t, db, user.ID, cat.ID, "post", time.Now())

	created, err := repo.CreateLikeIfAbsent(ctx, &models.Like{UserID: user.ID, ActualityID: post.ID})
	require.NoError(t, err)
	assert.True(t, created)

	// second like by the same user is absorbed by the unique index
	created, err = repo.CreateLikeIfAbsent(ctx, &models.Like{UserID: user.ID, ActualityID: post.ID})
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Where("actuality_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetLikesByActualityIDs(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewLikeRepository(db)

	u1 := testutil.CreateUser(t, db, "u1@example.com", models.RoleUser)
	u2 := testutil.CreateUser(t, db, "u2@example.com", models.RoleUser)
	cat := testutil.CreateCategory(t, db, "Sports", "#ff0000")
	a := testutil.CreateActuality(t, db, u1.ID, cat.ID, "a", time.Now())
	b := testutil.CreateActuality(t, db, u1.ID, cat.ID, "b", time.Now())

	for _, l := range []models.Like{{UserID: u1.ID, ActualityID: a.ID}, {UserID: u2.ID, ActualityID: a.ID}, {UserID: u2.ID, ActualityID: b.ID}} {
		_, err := repo.CreateLikeIfAbsent(ctx, &l)
		require.NoError(t, err)
	}

	likes, err := repo.GetLikesByActualityIDs(ctx, []uint{a.ID})
	require.NoError(t, err)
	assert.Len(t, likes, 2)

	likes, err = repo.GetLikesByActualityIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, likes)
}
