package service

import (
	"context"
	"testing"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_Create(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo, logger.NewNop())
	ownerID := uuid.New()

	room, err := svc.Create(context.Background(), ownerID, "  general  ", nil, false)
	require.NoError(t, err)

	assert.Equal(t, "general", room.Name)
	assert.Equal(t, ownerID, room.OwnerID)

	// The owner is a member from the start
	isMember, err := svc.IsMember(context.Background(), room.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, isMember)

	member := repo.members[memberKey{room.ID, ownerID}]
	require.NotNil(t, member)
	assert.Equal(t, domain.RoomRoleOwner, member.Role)
}

func TestRoomService_Create_EmptyName(t *testing.T) {
	svc := NewRoomService(newFakeRoomRepo(), logger.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), "   ", nil, false)
	require.EqualError(t, err, "room name is required")
}

func TestRoomService_Join(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo, logger.NewNop())
	ctx := context.Background()

	room, err := svc.Create(ctx, uuid.New(), "general", nil, false)
	require.NoError(t, err)

	joiner := uuid.New()
	member, err := svc.Join(ctx, room.ID, joiner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomRoleMember, member.Role)

	isMember, err := svc.IsMember(ctx, room.ID, joiner)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestRoomService_Join_PrivateRoom(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo, logger.NewNop())
	ctx := context.Background()

	room, err := svc.Create(ctx, uuid.New(), "secret", nil, true)
	require.NoError(t, err)

	_, err = svc.Join(ctx, room.ID, uuid.New())
	require.EqualError(t, err, "room is private")
}

func TestRoomService_Leave(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo, logger.NewNop())
	ctx := context.Background()
	ownerID := uuid.New()

	room, err := svc.Create(ctx, ownerID, "general", nil, false)
	require.NoError(t, err)

	joiner := uuid.New()
	_, err = svc.Join(ctx, room.ID, joiner)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, room.ID, joiner))

	isMember, err := svc.IsMember(ctx, room.ID, joiner)
	require.NoError(t, err)
	assert.False(t, isMember)

	// The owner cannot leave their own room
	err = svc.Leave(ctx, room.ID, ownerID)
	require.Error(t, err)
}

func TestRoomService_Delete_OwnerOnly(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo, logger.NewNop())
	ctx := context.Background()
	ownerID := uuid.New()

	room, err := svc.Create(ctx, ownerID, "general", nil, false)
	require.NoError(t, err)

	err = svc.Delete(ctx, room.ID, uuid.New())
	require.Error(t, err)
	require.Contains(t, repo.rooms, room.ID)

	require.NoError(t, svc.Delete(ctx, room.ID, ownerID))
	assert.NotContains(t, repo.rooms, room.ID)
}
