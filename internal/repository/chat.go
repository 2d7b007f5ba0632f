package repository

import (
	"context"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *domain.ChatMessage) error
	GetMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (room_id, sender_id, sender_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.RoomID, message.SenderID, message.SenderName, message.Content, message.CreatedAt,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err, "room_id", message.RoomID)
		return err
	}

	return nil
}

func (r *chatRepository) GetMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, room_id, sender_id, sender_name, content, created_at
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, roomID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		message := &domain.ChatMessage{}
		err := rows.Scan(
			&message.ID, &message.RoomID, &message.SenderID, &message.SenderName,
			&message.Content, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, nil
}
