package service

import (
	"context"
	"errors"
	"testing"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnectionRepo struct {
	connections   map[uuid.UUID]*domain.Connection
	getBetweenErr error
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: make(map[uuid.UUID]*domain.Connection)}
}

func (f *fakeConnectionRepo) Create(_ context.Context, conn *domain.Connection) error {
	f.connections[conn.ID] = conn
	return nil
}

func (f *fakeConnectionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Connection, error) {
	if conn, ok := f.connections[id]; ok {
		return conn, nil
	}
	return nil, errors.New("connection not found")
}

func (f *fakeConnectionRepo) GetBetween(_ context.Context, userA, userB uuid.UUID) (*domain.Connection, error) {
	if f.getBetweenErr != nil {
		return nil, f.getBetweenErr
	}
	for _, conn := range f.connections {
		if (conn.RequesterID == userA && conn.AddresseeID == userB) ||
			(conn.RequesterID == userB && conn.AddresseeID == userA) {
			return conn, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	conn, ok := f.connections[id]
	if !ok {
		return errors.New("connection not found")
	}
	conn.Status = status
	return nil
}

func (f *fakeConnectionRepo) ListByUser(_ context.Context, userID uuid.UUID, status string) ([]*domain.Connection, error) {
	var out []*domain.Connection
	for _, conn := range f.connections {
		if conn.RequesterID != userID && conn.AddresseeID != userID {
			continue
		}
		if status != "" && conn.Status != status {
			continue
		}
		out = append(out, conn)
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool, _, _ int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func connectionFixture(t *testing.T) (ConnectionService, *fakeConnectionRepo, *fakeNotificationRepo, *domain.User, *domain.User) {
	t.Helper()

	connRepo := newFakeConnectionRepo()
	userRepo := newFakeUserRepo()
	notificationRepo := &fakeNotificationRepo{}

	alice := seedUser(t, userRepo, "alice@example.com", "alice", "password123")
	bob := seedUser(t, userRepo, "bob@example.com", "bob", "password123")

	notificationSvc := NewNotificationService(notificationRepo, logger.NewNop())
	svc := NewConnectionService(connRepo, userRepo, notificationSvc, logger.NewNop())
	return svc, connRepo, notificationRepo, alice, bob
}

func TestConnectionService_Request(t *testing.T) {
	svc, _, notificationRepo, alice, bob := connectionFixture(t)

	conn, err := svc.Request(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, alice.ID, conn.RequesterID)
	assert.Equal(t, bob.ID, conn.AddresseeID)
	assert.Equal(t, domain.ConnectionStatusPending, conn.Status)

	// Addressee gets a notification
	require.Len(t, notificationRepo.notifications, 1)
	n := notificationRepo.notifications[0]
	assert.Equal(t, bob.ID, n.UserID)
	assert.Equal(t, domain.NotificationTypeConnectionRequest, n.Type)
	assert.Contains(t, n.Body, "alice")
}

func TestConnectionService_Request_Self(t *testing.T) {
	svc, _, _, alice, _ := connectionFixture(t)

	_, err := svc.Request(context.Background(), alice.ID, alice.ID)
	require.EqualError(t, err, "cannot connect to yourself")
}

func TestConnectionService_Request_Duplicate(t *testing.T) {
	svc, _, _, alice, bob := connectionFixture(t)
	ctx := context.Background()

	_, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Same direction
	_, err = svc.Request(ctx, alice.ID, bob.ID)
	require.EqualError(t, err, "connection request already pending")

	// Reverse direction hits the same row
	_, err = svc.Request(ctx, bob.ID, alice.ID)
	require.EqualError(t, err, "connection request already pending")
}

func TestConnectionService_Request_LookupFailure(t *testing.T) {
	svc, connRepo, _, alice, bob := connectionFixture(t)
	connRepo.getBetweenErr = errors.New("database unavailable")

	// A failed duplicate check must not fall through to an insert
	_, err := svc.Request(context.Background(), alice.ID, bob.ID)
	require.EqualError(t, err, "database unavailable")
	assert.Empty(t, connRepo.connections)
}

func TestConnectionService_Accept(t *testing.T) {
	svc, _, notificationRepo, alice, bob := connectionFixture(t)
	ctx := context.Background()

	conn, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, conn.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionStatusAccepted, accepted.Status)

	// Requester is notified of the acceptance
	require.Len(t, notificationRepo.notifications, 2)
	assert.Equal(t, alice.ID, notificationRepo.notifications[1].UserID)
	assert.Equal(t, domain.NotificationTypeConnectionAccepted, notificationRepo.notifications[1].Type)
}

func TestConnectionService_Accept_OnlyAddressee(t *testing.T) {
	svc, _, _, alice, bob := connectionFixture(t)
	ctx := context.Background()

	conn, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// The requester cannot accept their own request
	_, err = svc.Accept(ctx, conn.ID, alice.ID)
	require.EqualError(t, err, "only addressee can decide connection request")
}

func TestConnectionService_Decide_OneShot(t *testing.T) {
	svc, _, _, alice, bob := connectionFixture(t)
	ctx := context.Background()

	conn, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, conn.ID, bob.ID)
	require.NoError(t, err)

	// Already decided, no second transition
	_, err = svc.Accept(ctx, conn.ID, bob.ID)
	require.EqualError(t, err, "connection is not pending")
}

func TestConnectionService_Request_AfterRejection(t *testing.T) {
	svc, _, _, alice, bob := connectionFixture(t)
	ctx := context.Background()

	conn, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, conn.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Request(ctx, alice.ID, bob.ID)
	require.EqualError(t, err, "connection request was declined")
}

func TestConnectionService_List(t *testing.T) {
	svc, _, _, alice, bob := connectionFixture(t)
	ctx := context.Background()

	_, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	pending, err := svc.List(ctx, bob.ID, domain.ConnectionStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	accepted, err := svc.List(ctx, bob.ID, domain.ConnectionStatusAccepted)
	require.NoError(t, err)
	assert.Empty(t, accepted)

	_, err = svc.List(ctx, bob.ID, "bogus")
	require.EqualError(t, err, "invalid connection status")
}
