package postgres

import (
	"context"

	"go-collab-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type messageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) domain.MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	query := `INSERT INTO messages (id, collab_id, sender_id, receiver_id, text, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		message.ID, message.CollabID, message.SenderID, message.ReceiverID,
		message.Text, message.CreatedAt,
	)
	return err
}

func (r *messageRepo) FetchByCollab(ctx context.Context, collabID string) ([]domain.Message, error) {
	query := `SELECT id, collab_id, sender_id, receiver_id, text, created_at
              FROM messages WHERE collab_id = $1
              ORDER BY created_at ASC`
	return r.fetch(ctx, query, collabID)
}

// FetchInvolving keeps the ascending order the reliability scorer relies on
// to pair incoming messages with replies.
func (r *messageRepo) FetchInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	query := `SELECT id, collab_id, sender_id, receiver_id, text, created_at
              FROM messages WHERE sender_id = $1 OR receiver_id = $1
              ORDER BY created_at ASC`
	return r.fetch(ctx, query, userID)
}

func (r *messageRepo) fetch(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.CollabID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
