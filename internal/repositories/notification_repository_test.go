package repositories_test

import (
	"context"
	"testing"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewNotificationRepository(db)

	actor := testutil.CreateUser(t, db, "actor@example.com", models.RoleUser)
	r1 := testutil.CreateUser(t, db, "r1@example.com", models.RoleUser)
	r2 := testutil.CreateUser(t, db, "r2@example.com", models.RoleUser)

	require.NoError(t, repo.CreateNotifications(ctx, []models.Notification{
		{Type: models.NotificationActualityCreated, ActorID: actor.ID, RecipientID: r1.ID, ActualityID: 1, Message: "one"},
		{Type: models.NotificationActualityCreated, ActorID: actor.ID, RecipientID: r1.ID, ActualityID: 2, Message: "two"},
		{Type: models.NotificationActualityCreated, ActorID: actor.ID, RecipientID: r2.ID, ActualityID: 2, Message: "two"},
	}))
	require.NoError(t, repo.CreateNotifications(ctx, nil))

	list, total, err := repo.GetByRecipientID(ctx, r1.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, actor.Email, list[0].Actor.Email)

	unread, err := repo.GetUnreadCount(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// r2 cannot mark r1's notification
	assert.ErrorIs(t, repo.MarkAsRead(ctx, list[0].ID, r2.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.MarkAsRead(ctx, list[0].ID, r1.ID))
	unread, _ = repo.GetUnreadCount(ctx, r1.ID)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, repo.MarkAllAsRead(ctx, r1.ID))
	unread, _ = repo.GetUnreadCount(ctx, r1.ID)
	assert.Zero(t, unread)
	unread, _ = repo.GetUnreadCount(ctx, r2.ID)
	assert.Equal(t, int64(1), unread)
}
