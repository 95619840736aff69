package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-collab-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type collabRepo struct {
	db *pgxpool.Pool
}

func NewCollabRepository(db *pgxpool.Pool) domain.CollabRepository {
	return &collabRepo{db: db}
}

const collabColumns = `id, creator1, creator2, card_data, status, proof_link, created_at, updated_at`

func scanCollab(row pgx.Row) (*domain.Collab, error) {
	var c domain.Collab
	var cardJSON []byte
	err := row.Scan(
		&c.ID, &c.Creator1, &c.Creator2, &cardJSON, &c.Status, &c.ProofLink,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(cardJSON) > 0 {
		if err := json.Unmarshal(cardJSON, &c.CardData); err != nil {
			return nil, fmt.Errorf("collab %s: malformed card_data: %w", c.ID, err)
		}
	}
	return &c, nil
}

func (r *collabRepo) Create(ctx context.Context, collab *domain.Collab) error {
	if collab.ID == "" {
		collab.ID = uuid.New().String()
	}
	cardJSON, err := json.Marshal(collab.CardData)
	if err != nil {
		return err
	}

	query := `INSERT INTO collabs (id, creator1, creator2, card_data, status, proof_link, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.Exec(ctx, query,
		collab.ID, collab.Creator1, collab.Creator2, string(cardJSON), collab.Status,
		collab.ProofLink, collab.CreatedAt, collab.UpdatedAt,
	)
	return err
}

func (r *collabRepo) GetByID(ctx context.Context, id string) (*domain.Collab, error) {
	query := `SELECT ` + collabColumns + ` FROM collabs WHERE id = $1`
	return scanCollab(r.db.QueryRow(ctx, query, id))
}

func (r *collabRepo) FetchByUser(ctx context.Context, userID string) ([]domain.Collab, error) {
	query := `SELECT ` + collabColumns + ` FROM collabs
              WHERE creator1 = $1 OR creator2 = $1
              ORDER BY created_at DESC`
	return r.fetch(ctx, query, userID)
}

func (r *collabRepo) FetchPending(ctx context.Context, excludeCreatorID string, limit int) ([]domain.Collab, error) {
	query := `SELECT ` + collabColumns + ` FROM collabs
              WHERE status = $1 AND creator1 <> $2
              ORDER BY created_at DESC
              LIMIT $3`
	return r.fetch(ctx, query, domain.CollabStatusPending, excludeCreatorID, limit)
}

func (r *collabRepo) FetchStatusesInvolving(ctx context.Context, userID string) ([]domain.CollabStatus, error) {
	query := `SELECT status FROM collabs WHERE creator1 = $1 OR creator2 = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []domain.CollabStatus
	for rows.Next() {
		var s domain.CollabStatus
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *collabRepo) Update(ctx context.Context, collab *domain.Collab) error {
	cardJSON, err := json.Marshal(collab.CardData)
	if err != nil {
		return err
	}

	query := `UPDATE collabs
              SET creator2 = $2, card_data = $3, status = $4, proof_link = $5, updated_at = $6
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		collab.ID, collab.Creator2, string(cardJSON), collab.Status, collab.ProofLink, collab.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *collabRepo) ClaimPending(ctx context.Context, collab *domain.Collab) error {
	// The status/creator2 guard makes concurrent joins race on the
	// database row instead of on a stale read.
	query := `UPDATE collabs
              SET creator2 = $2, status = $3, updated_at = $4
              WHERE id = $1 AND status = $5 AND creator2 IS NULL`
	tag, err := r.db.Exec(ctx, query,
		collab.ID, collab.Creator2, collab.Status, collab.UpdatedAt, domain.CollabStatusPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *collabRepo) fetch(ctx context.Context, query string, args ...interface{}) ([]domain.Collab, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collabs []domain.Collab
	for rows.Next() {
		c, err := scanCollab(rows)
		if err != nil {
			return nil, err
		}
		collabs = append(collabs, *c)
	}
	return collabs, rows.Err()
}
