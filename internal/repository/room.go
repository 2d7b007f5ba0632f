package repository

import (
	"context"
	"errors"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *domain.RoomMember) error
	RemoveMember(ctx context.Context, roomID, userID uuid.UUID) error
	GetMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error)
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

type roomRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRoomRepository(db *pgxpool.Pool, log logger.Logger) RoomRepository {
	return &roomRepository{db: db, log: log}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, name, description, owner_id, is_private, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		room.ID, room.Name, room.Description, room.OwnerID, room.IsPrivate,
		room.CreatedAt, room.UpdatedAt,
	).Scan(&room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create room", "error", err)
		return err
	}

	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	query := `
		SELECT id, name, description, owner_id, is_private, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	room := &domain.Room{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID, &room.Name, &room.Description, &room.OwnerID, &room.IsPrivate,
		&room.CreatedAt, &room.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("room not found")
		}
		r.log.Error("Failed to get room by ID", "error", err)
		return nil, err
	}

	return room, nil
}

// List returns rooms visible to the user: public rooms plus private rooms the
// user is a member of.
func (r *roomRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error) {
	query := `
		SELECT DISTINCT r.id, r.name, r.description, r.owner_id, r.is_private, r.created_at, r.updated_at
		FROM rooms r
		LEFT JOIN room_members m ON m.room_id = r.id AND m.user_id = $1
		WHERE r.is_private = FALSE OR m.user_id IS NOT NULL
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list rooms", "error", err)
		return nil, err
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		err := rows.Scan(
			&room.ID, &room.Name, &room.Description, &room.OwnerID, &room.IsPrivate,
			&room.CreatedAt, &room.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan room", "error", err)
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete room", "error", err)
		return err
	}
	return nil
}

func (r *roomRepository) AddMember(ctx context.Context, member *domain.RoomMember) error {
	// Joining twice is a no-op
	query := `
		INSERT INTO room_members (room_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, member.RoomID, member.UserID, member.Role, member.JoinedAt)
	if err != nil {
		r.log.Error("Failed to add room member", "error", err)
		return err
	}

	return nil
}

func (r *roomRepository) RemoveMember(ctx context.Context, roomID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM room_members WHERE room_id = $1 AND user_id = $2`, roomID, userID)
	if err != nil {
		r.log.Error("Failed to remove room member", "error", err)
		return err
	}
	return nil
}

func (r *roomRepository) GetMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error) {
	query := `
		SELECT room_id, user_id, role, joined_at
		FROM room_members
		WHERE room_id = $1
		ORDER BY joined_at
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to get room members", "error", err)
		return nil, err
	}
	defer rows.Close()

	var members []*domain.RoomMember
	for rows.Next() {
		member := &domain.RoomMember{}
		if err := rows.Scan(&member.RoomID, &member.UserID, &member.Role, &member.JoinedAt); err != nil {
			r.log.Error("Failed to scan room member", "error", err)
			return nil, err
		}
		members = append(members, member)
	}

	return members, nil
}

func (r *roomRepository) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM room_members WHERE room_id = $1 AND user_id = $2)`,
		roomID, userID,
	).Scan(&exists)

	if err != nil {
		r.log.Error("Failed to check room membership", "error", err)
		return false, err
	}

	return exists, nil
}
