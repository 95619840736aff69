package postgres

import (
	"context"
	"errors"

	"go-collab-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const profileColumns = `id, name, niche_tags, style_tags, follower_bucket,
	reliability_score, avg_response_time, completion_rate, abandoned_collabs,
	completed_collabs, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(
		&p.ID, &p.Name, pq.Array(&p.NicheTags), pq.Array(&p.StyleTags), &p.FollowerBucket,
		&p.ReliabilityScore, &p.AvgResponseTimeHours, &p.CompletionRate, &p.AbandonedCollabs,
		&p.CompletedCollabs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *userRepo) Create(ctx context.Context, profile *domain.UserProfile) error {
	query := `INSERT INTO users (id, name, niche_tags, style_tags, follower_bucket, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Name, pq.Array(profile.NicheTags), pq.Array(profile.StyleTags),
		profile.FollowerBucket, profile.CreatedAt, profile.UpdatedAt,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.UserProfile, error) {
	profiles := make(map[string]*domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	query := `SELECT ` + profileColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}

// Update writes only the user-editable columns; reputation fields are owned
// by UpdateReliabilityMetrics.
func (r *userRepo) Update(ctx context.Context, profile *domain.UserProfile) error {
	query := `UPDATE users
              SET name = $2, niche_tags = $3, style_tags = $4, follower_bucket = $5, updated_at = $6
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		profile.ID, profile.Name, pq.Array(profile.NicheTags), pq.Array(profile.StyleTags),
		profile.FollowerBucket, profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) IncrementCompletedCollabs(ctx context.Context, id string) error {
	query := `UPDATE users SET completed_collabs = completed_collabs + 1, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateReliabilityMetrics(ctx context.Context, id string, metrics domain.ReliabilityMetrics) error {
	query := `UPDATE users
              SET reliability_score = $2, avg_response_time = $3, completion_rate = $4,
                  abandoned_collabs = $5, updated_at = NOW()
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		id, metrics.TotalScore, metrics.AvgResponseTimeHours, metrics.CompletionRate, metrics.AbandonedCount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
