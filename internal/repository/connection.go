package repository

import (
	"context"
	"errors"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.Connection) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error)
	GetBetween(ctx context.Context, userA, userB uuid.UUID) (*domain.Connection, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Connection, error)
}

type connectionRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewConnectionRepository(db *pgxpool.Pool, log logger.Logger) ConnectionRepository {
	return &connectionRepository{db: db, log: log}
}

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	query := `
		INSERT INTO connections (id, requester_id, addressee_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		conn.ID, conn.RequesterID, conn.AddresseeID, conn.Status,
		conn.CreatedAt, conn.UpdatedAt,
	).Scan(&conn.CreatedAt, &conn.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Symmetric unique index on the pair lost a race
			return errors.New("connection already exists")
		}
		r.log.Error("Failed to create connection", "error", err)
		return err
	}

	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	query := `
		SELECT id, requester_id, addressee_id, status, created_at, updated_at
		FROM connections
		WHERE id = $1
	`

	conn := &domain.Connection{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&conn.ID, &conn.RequesterID, &conn.AddresseeID, &conn.Status,
		&conn.CreatedAt, &conn.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("connection not found")
		}
		r.log.Error("Failed to get connection", "error", err)
		return nil, err
	}

	return conn, nil
}

// GetBetween looks up the connection row for a user pair in either direction.
// Returns (nil, nil) when no row exists so callers can tell "no connection"
// apart from a failed lookup.
func (r *connectionRepository) GetBetween(ctx context.Context, userA, userB uuid.UUID) (*domain.Connection, error) {
	query := `
		SELECT id, requester_id, addressee_id, status, created_at, updated_at
		FROM connections
		WHERE (requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1)
	`

	conn := &domain.Connection{}
	err := r.db.QueryRow(ctx, query, userA, userB).Scan(
		&conn.ID, &conn.RequesterID, &conn.AddresseeID, &conn.Status,
		&conn.CreatedAt, &conn.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to get connection between users", "error", err)
		return nil, err
	}

	return conn, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE connections
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		r.log.Error("Failed to update connection status", "error", err)
		return err
	}

	return nil
}

func (r *connectionRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Connection, error) {
	query := `
		SELECT id, requester_id, addressee_id, status, created_at, updated_at
		FROM connections
		WHERE (requester_id = $1 OR addressee_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		r.log.Error("Failed to list connections", "error", err)
		return nil, err
	}
	defer rows.Close()

	var conns []*domain.Connection
	for rows.Next() {
		conn := &domain.Connection{}
		err := rows.Scan(
			&conn.ID, &conn.RequesterID, &conn.AddresseeID, &conn.Status,
			&conn.CreatedAt, &conn.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan connection", "error", err)
			return nil, err
		}
		conns = append(conns, conn)
	}

	return conns, nil
}
