package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-api/models"
)

func TestNotificationService_ReadFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	u := seedUser(t, db, "User", models.RoleUser)
	other := seedUser(t, db, "Other", models.RoleUser)

	var batch notificationBatch
	batch.add(u.UserID, "adoption_application_submitted", "one")
	batch.add(u.UserID, "adoption_application_approved", "two")
	batch.add(other.UserID, "listing_approval", "three")
	require.NoError(t, batch.flush(db))

	ctx := context.Background()
	n, err := svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := svc.List(ctx, u.UserID, NotificationQuery{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, svc.MarkRead(ctx, u.UserID, items[0].NotificationID))
	// marking again is fine
	require.NoError(t, svc.MarkRead(ctx, u.UserID, items[0].NotificationID))

	unread, err := svc.List(ctx, u.UserID, NotificationQuery{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, items[1].NotificationID, unread[0].NotificationID)

	otherItems, err := svc.List(ctx, other.UserID, NotificationQuery{})
	require.NoError(t, err)
	err = svc.MarkRead(ctx, u.UserID, otherItems[0].NotificationID)
	assert.Equal(t, KindNotFound, KindOf(err))

	updated, err := svc.MarkAllRead(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	n, err = svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.UnreadCount(ctx, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNotificationBatch_EmptyFlushIsNoop(t *testing.T) {
	var batch notificationBatch
	assert.NoError(t, batch.flush(nil))
}
