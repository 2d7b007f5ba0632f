package service

import (
	"context"
	"testing"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceEntry struct {
	status string
	ttl    time.Duration
}

type fakePresenceRepo struct {
	entries map[uuid.UUID]presenceEntry
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{entries: make(map[uuid.UUID]presenceEntry)}
}

func (f *fakePresenceRepo) Set(_ context.Context, userID uuid.UUID, status string, ttl time.Duration) error {
	f.entries[userID] = presenceEntry{status: status, ttl: ttl}
	return nil
}

func (f *fakePresenceRepo) Get(_ context.Context, userID uuid.UUID) (*domain.Presence, error) {
	entry, ok := f.entries[userID]
	if !ok {
		return &domain.Presence{UserID: userID, Status: domain.StatusOffline}, nil
	}
	return &domain.Presence{UserID: userID, Status: entry.status, LastSeenAt: time.Now()}, nil
}

func (f *fakePresenceRepo) Touch(_ context.Context, userID uuid.UUID, ttl time.Duration) (bool, error) {
	entry, ok := f.entries[userID]
	if !ok {
		return false, nil
	}
	entry.ttl = ttl
	f.entries[userID] = entry
	return true, nil
}

func TestPresenceService_SetStatus(t *testing.T) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, time.Minute, logger.NewNop())
	userID := uuid.New()

	require.NoError(t, svc.SetStatus(context.Background(), userID, domain.StatusBusy))

	entry := repo.entries[userID]
	assert.Equal(t, domain.StatusBusy, entry.status)
	assert.Equal(t, time.Minute, entry.ttl)
}

func TestPresenceService_SetStatus_Invalid(t *testing.T) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, time.Minute, logger.NewNop())

	err := svc.SetStatus(context.Background(), uuid.New(), "sleeping")
	require.EqualError(t, err, "invalid status")
}

func TestPresenceService_SetStatus_OfflineShortTTL(t *testing.T) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, time.Minute, logger.NewNop())
	userID := uuid.New()

	require.NoError(t, svc.SetStatus(context.Background(), userID, domain.StatusOffline))

	// Explicit offline gets a grace TTL, not the full window
	assert.Less(t, repo.entries[userID].ttl, time.Minute)
}

func TestPresenceService_GetStatus_MissingIsOffline(t *testing.T) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, time.Minute, logger.NewNop())

	presence, err := svc.GetStatus(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffline, presence.Status)
}

func TestPresenceService_Heartbeat(t *testing.T) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, time.Minute, logger.NewNop())
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, userID, domain.StatusAway))
	require.NoError(t, svc.Heartbeat(ctx, userID))

	// Heartbeat keeps the chosen status alive
	assert.Equal(t, domain.StatusAway, repo.entries[userID].status)
}

func TestPresenceService_Heartbeat_RevivesDecayedStatus(t *testing.T) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, time.Minute, logger.NewNop())
	userID := uuid.New()

	// No entry, as if the TTL already expired
	require.NoError(t, svc.Heartbeat(context.Background(), userID))

	assert.Equal(t, domain.StatusOnline, repo.entries[userID].status)
}
