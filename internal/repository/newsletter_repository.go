package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/newsroom/internal/domain"
)

// NewsletterRepository stores newsletters.
type NewsletterRepository interface {
	Create(ctx context.Context, newsletter *domain.Newsletter) error
	ListByJournalist(ctx context.Context, journalistID string, limit, offset int) ([]domain.Newsletter, error)
}

type newsletterRepository struct {
	pool *pgxpool.Pool
}

// NewNewsletterRepository builds repository.
func NewNewsletterRepository(pool *pgxpool.Pool) NewsletterRepository {
	return &newsletterRepository{pool: pool}
}

func (r *newsletterRepository) Create(ctx context.Context, newsletter *domain.Newsletter) error {
	const query = `
        INSERT INTO newsletters (title, content, journalist_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		newsletter.Title,
		newsletter.Content,
		newsletter.JournalistID,
	).Scan(&newsletter.ID, &newsletter.CreatedAt)
	return translate(err)
}

func (r *newsletterRepository) ListByJournalist(ctx context.Context, journalistID string, limit, offset int) ([]domain.Newsletter, error) {
	const query = `
        SELECT id, title, content, journalist_id, created_at
        FROM newsletters WHERE journalist_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	limit, offset = normalizePage(limit, offset)
	rows, err := r.pool.Query(ctx, query, journalistID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Newsletter
	for rows.Next() {
		var newsletter domain.Newsletter
		if err := rows.Scan(
			&newsletter.ID,
			&newsletter.Title,
			&newsletter.Content,
			&newsletter.JournalistID,
			&newsletter.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, newsletter)
	}
	return result, rows.Err()
}
