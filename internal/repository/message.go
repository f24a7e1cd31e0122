package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"staffing_bridge/internal/domain"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// List returns every message for a request in created_at ascending
	// order; the store is the sole source of ordering truth.
	List(ctx context.Context, requestID uuid.UUID) ([]*domain.Message, error)
	// ListAfter returns messages with an id greater than afterID, for the
	// polling fallback. afterID 0 is equivalent to List.
	ListAfter(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error)
	Count(ctx context.Context) (int64, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (request_id, sender_id, sender_name, sender_role, body, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.RequestID, message.SenderID, message.SenderName,
		string(message.SenderRole), message.Body, message.Source,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err, "request_id", message.RequestID)
		return apperrors.StoreError(err)
	}

	return nil
}

func (r *messageRepository) List(ctx context.Context, requestID uuid.UUID) ([]*domain.Message, error) {
	return r.ListAfter(ctx, requestID, 0)
}

func (r *messageRepository) ListAfter(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error) {
	query := `
		SELECT id, request_id, sender_id, sender_name, sender_role, body, source, created_at
		FROM messages
		WHERE request_id = $1 AND id > $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, requestID, afterID)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err, "request_id", requestID)
		return nil, apperrors.StoreError(err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		message := &domain.Message{}
		var role string
		err := rows.Scan(
			&message.ID, &message.RequestID, &message.SenderID, &message.SenderName,
			&role, &message.Body, &message.Source, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, apperrors.StoreError(err)
		}
		// Rows written by older producers may carry a role synonym.
		message.SenderRole = domain.NormalizeRole(role, domain.RoleCustomer)
		messages = append(messages, message)
	}

	return messages, nil
}

func (r *messageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM messages`).Scan(&count); err != nil {
		r.log.Error("Failed to count messages", "error", err)
		return 0, apperrors.StoreError(err)
	}
	return count, nil
}
