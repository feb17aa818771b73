package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/newsroom/internal/domain"
)

// PublisherRepository manages publishers and their member rosters.
type PublisherRepository interface {
	Create(ctx context.Context, publisher *domain.Publisher) error
	// CreateWithOwner stores the publisher and its first member atomically.
	CreateWithOwner(ctx context.Context, publisher *domain.Publisher, ownerID string) error
	GetByID(ctx context.Context, id string) (*domain.Publisher, error)
	List(ctx context.Context, limit, offset int) ([]domain.Publisher, error)
	// Delete removes the publisher, its roster and subscriptions to it. It
	// returns ErrReferenced while any article belongs to the publisher.
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, publisherID, userID string) error
	RemoveMember(ctx context.Context, publisherID, userID string) error
	IsMember(ctx context.Context, publisherID, userID string) (bool, error)
	ListMembers(ctx context.Context, publisherID string) ([]domain.PublisherMember, error)
}

type publisherRepository struct {
	pool *pgxpool.Pool
}

// NewPublisherRepository constructs repository.
func NewPublisherRepository(pool *pgxpool.Pool) PublisherRepository {
	return &publisherRepository{pool: pool}
}

func (r *publisherRepository) Create(ctx context.Context, publisher *domain.Publisher) error {
	const query = `
        INSERT INTO publishers (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, publisher.Name).
		Scan(&publisher.ID, &publisher.CreatedAt, &publisher.UpdatedAt)
}

func (r *publisherRepository) CreateWithOwner(ctx context.Context, publisher *domain.Publisher, ownerID string) error {
	return translate(pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insertPublisher = `
            INSERT INTO publishers (name)
            VALUES ($1)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertPublisher, publisher.Name).
			Scan(&publisher.ID, &publisher.CreatedAt, &publisher.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO publisher_members (publisher_id, user_id) VALUES ($1,$2)`, publisher.ID, ownerID)
		return err
	}))
}

func (r *publisherRepository) GetByID(ctx context.Context, id string) (*domain.Publisher, error) {
	const query = `SELECT id, name, created_at, updated_at FROM publishers WHERE id=$1`
	var publisher domain.Publisher
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &publisher, nil
}

func (r *publisherRepository) List(ctx context.Context, limit, offset int) ([]domain.Publisher, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM publishers ORDER BY name ASC LIMIT $1 OFFSET $2`
	limit, offset = normalizePage(limit, offset)
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Publisher
	for rows.Next() {
		var publisher domain.Publisher
		if err := rows.Scan(&publisher.ID, &publisher.Name, &publisher.CreatedAt, &publisher.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, publisher)
	}
	return result, rows.Err()
}

func (r *publisherRepository) Delete(ctx context.Context, id string) error {
	return translate(pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var owned int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE publisher_id=$1`, id).Scan(&owned); err != nil {
			return err
		}
		if owned > 0 {
			return ErrReferenced
		}
		if _, err := tx.Exec(ctx, `DELETE FROM publisher_members WHERE publisher_id=$1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM publisher_subscriptions WHERE publisher_id=$1`, id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM publishers WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (r *publisherRepository) AddMember(ctx context.Context, publisherID, userID string) error {
	const query = `
        INSERT INTO publisher_members (publisher_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (publisher_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, publisherID, userID)
	return translate(err)
}

func (r *publisherRepository) RemoveMember(ctx context.Context, publisherID, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM publisher_members WHERE publisher_id=$1 AND user_id=$2`, publisherID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *publisherRepository) IsMember(ctx context.Context, publisherID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM publisher_members WHERE publisher_id=$1 AND user_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, publisherID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *publisherRepository) ListMembers(ctx context.Context, publisherID string) ([]domain.PublisherMember, error) {
	const query = `
        SELECT m.publisher_id, m.user_id, u.username, u.role, m.joined_at
        FROM publisher_members m JOIN users u ON u.id = m.user_id
        WHERE m.publisher_id=$1 ORDER BY m.joined_at ASC`
	rows, err := r.pool.Query(ctx, query, publisherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PublisherMember
	for rows.Next() {
		var member domain.PublisherMember
		if err := rows.Scan(&member.PublisherID, &member.UserID, &member.Username, &member.Role, &member.JoinedAt); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
