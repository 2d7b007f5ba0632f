package service

import (
	"context"
	"strings"
	"testing"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Notify(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, logger.NewNop())

	userID := uuid.New()
	actorID := uuid.New()

	n, err := svc.Notify(context.Background(), userID, domain.NotificationTypeSystem, &actorID, "  maintenance at noon  ")
	require.NoError(t, err)

	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, "maintenance at noon", n.Body)
	assert.False(t, n.IsRead)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, actorID, *n.ActorID)
}

func TestNotificationService_Notify_Validation(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, logger.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Notify(ctx, userID, domain.NotificationTypeSystem, nil, "   ")
	require.EqualError(t, err, "notification body is required")

	_, err = svc.Notify(ctx, userID, domain.NotificationTypeSystem, nil, strings.Repeat("a", 501))
	require.EqualError(t, err, "notification body is too long")

	_, err = svc.Notify(ctx, userID, "carrier_pigeon", nil, "hello")
	require.EqualError(t, err, "invalid notification type")
}

func TestNotificationService_ReadFlow(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, logger.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Notify(ctx, userID, domain.NotificationTypeSystem, nil, "one")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, userID, domain.NotificationTypeSystem, nil, "two")
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkRead(ctx, first.ID, userID))

	unread, err := svc.List(ctx, userID, true, 50, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "two", unread[0].Body)

	require.NoError(t, svc.MarkAllRead(ctx, userID))

	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_MarkRead_WrongUser(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, logger.NewNop())
	ctx := context.Background()

	n, err := svc.Notify(ctx, uuid.New(), domain.NotificationTypeSystem, nil, "hello")
	require.NoError(t, err)

	// Another user cannot mark someone else's notification
	err = svc.MarkRead(ctx, n.ID, uuid.New())
	require.Error(t, err)
}
