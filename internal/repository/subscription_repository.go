package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/newsroom/internal/domain"
)

// SubscriptionRepository stores what readers follow.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, readerID string, kind domain.SubscriptionKind, targetID string) error
	Unsubscribe(ctx context.Context, readerID string, kind domain.SubscriptionKind, targetID string) error
	List(ctx context.Context, readerID string) (*domain.Subscriptions, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository builds repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func subscriptionTable(kind domain.SubscriptionKind) (table, column string, err error) {
	switch kind {
	case domain.SubscriptionPublisher:
		return "publisher_subscriptions", "publisher_id", nil
	case domain.SubscriptionJournalist:
		return "journalist_subscriptions", "journalist_id", nil
	default:
		return "", "", fmt.Errorf("unknown subscription kind %q", kind)
	}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, readerID string, kind domain.SubscriptionKind, targetID string) error {
	table, column, err := subscriptionTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (reader_id, %s) VALUES ($1,$2) ON CONFLICT DO NOTHING`, table, column)
	_, err = r.pool.Exec(ctx, query, readerID, targetID)
	return translate(err)
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, readerID string, kind domain.SubscriptionKind, targetID string) error {
	table, column, err := subscriptionTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE reader_id=$1 AND %s=$2`, table, column)
	cmd, err := r.pool.Exec(ctx, query, readerID, targetID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context, readerID string) (*domain.Subscriptions, error) {
	subs := &domain.Subscriptions{ReaderID: readerID}

	publishers, err := r.collect(ctx, `SELECT publisher_id FROM publisher_subscriptions WHERE reader_id=$1`, readerID)
	if err != nil {
		return nil, err
	}
	journalists, err := r.collect(ctx, `SELECT journalist_id FROM journalist_subscriptions WHERE reader_id=$1`, readerID)
	if err != nil {
		return nil, err
	}
	subs.PublisherIDs = publishers
	subs.JournalistIDs = journalists
	return subs, nil
}

func (r *subscriptionRepository) collect(ctx context.Context, query, readerID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, readerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
