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

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, log logger.Logger) NotificationRepository {
	return &notificationRepository{db: db, log: log}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, actor_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		n.ID, n.UserID, n.Type, n.ActorID, n.Body, n.IsRead, n.CreatedAt,
	).Scan(&n.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create notification", "error", err, "user_id", n.UserID)
		return err
	}

	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, type, actor_id, body, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, unreadOnly, limit, offset)
	if err != nil {
		r.log.Error("Failed to list notifications", "error", err)
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.ActorID, &n.Body, &n.IsRead, &n.CreatedAt)
		if err != nil {
			r.log.Error("Failed to scan notification", "error", err)
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// MarkRead is idempotent; marking an already-read notification succeeds.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	if err != nil {
		r.log.Error("Failed to mark notification read", "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("notification not found")
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)

	if err != nil {
		r.log.Error("Failed to mark all notifications read", "error", err)
		return err
	}

	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	).Scan(&count)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		r.log.Error("Failed to count unread notifications", "error", err)
		return 0, err
	}

	return count, nil
}
