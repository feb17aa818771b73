package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/newsroom/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ArticleFilter narrows article listings. Nil fields are not applied.
// Results are always ordered by created_at, newest first.
type ArticleFilter struct {
	JournalistID *string
	PublisherID  *string
	Approved     *bool
	Published    *bool
	// SubscriberID keeps articles whose publisher or journalist the reader follows.
	SubscriberID *string
	Limit        int
	Offset       int
}

// ArticleRepository encapsulates article persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, title, content, journalist_id, publisher_id, approved, published, is_draft,
               created_at, updated_at, published_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, content, journalist_id, publisher_id, approved, published, is_draft, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.JournalistID,
		article.PublisherID,
		article.Approved,
		article.Published,
		article.IsDraft,
		article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return translate(err)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, content=$2, journalist_id=$3, publisher_id=$4, approved=$5,
            published=$6, is_draft=$7, published_at=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.JournalistID,
		article.PublisherID,
		article.Approved,
		article.Published,
		article.IsDraft,
		article.PublishedAt,
		article.ID,
	).Scan(&article.UpdatedAt)
	return translate(err)
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	return &articles[0], nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepository) ListWithFilter(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	query, args := buildArticleListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// buildArticleListQuery renders filter as a parameterised SELECT. Placeholders
// are numbered in the order the arguments are returned.
func buildArticleListQuery(filter ArticleFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.JournalistID != nil {
		args = append(args, *filter.JournalistID)
		clauses = append(clauses, fmt.Sprintf("journalist_id=$%d", len(args)))
	}
	if filter.PublisherID != nil {
		args = append(args, *filter.PublisherID)
		clauses = append(clauses, fmt.Sprintf("publisher_id=$%d", len(args)))
	}
	if filter.Approved != nil {
		args = append(args, *filter.Approved)
		clauses = append(clauses, fmt.Sprintf("approved=$%d", len(args)))
	}
	if filter.Published != nil {
		args = append(args, *filter.Published)
		clauses = append(clauses, fmt.Sprintf("published=$%d", len(args)))
	}
	if filter.SubscriberID != nil {
		args = append(args, *filter.SubscriberID)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(publisher_id IN (SELECT publisher_id FROM publisher_subscriptions WHERE reader_id=%s)"+
				" OR journalist_id IN (SELECT journalist_id FROM journalist_subscriptions WHERE reader_id=%s))",
			placeholder, placeholder))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		articleColumns, strings.Join(clauses, " AND "), limit, offset)
	return query, args
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.JournalistID,
			&article.PublisherID,
			&article.Approved,
			&article.Published,
			&article.IsDraft,
			&article.CreatedAt,
			&article.UpdatedAt,
			&article.PublishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

// NormalizePage clamps paging values to the accepted range.
func NormalizePage(limit, offset int) (int, int) {
	return normalizePage(limit, offset)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
