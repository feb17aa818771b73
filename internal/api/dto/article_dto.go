package dto

import (
	"time"

	"github.com/spec-kit/newsroom/internal/domain"
)

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	PublisherID *string `json:"publisher_id"`
}

// EditArticleRequest is a partial update. Sending clear_publisher detaches the
// article from its publisher.
type EditArticleRequest struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	PublisherID    *string `json:"publisher_id"`
	ClearPublisher bool    `json:"clear_publisher"`
}

// ArticleResponse renders an article.
type ArticleResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	JournalistID *string             `json:"journalist_id"`
	PublisherID  *string             `json:"publisher_id"`
	State        domain.ArticleState `json:"state"`
	Approved     bool                `json:"approved"`
	Published    bool                `json:"published"`
	IsDraft      bool                `json:"is_draft"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	PublishedAt  *time.Time          `json:"published_at"`
}

// TransitionResponse reports the article after approve or publish. Unchanged
// is true when the article was already in the target state.
type TransitionResponse struct {
	Article   ArticleResponse `json:"article"`
	Unchanged bool            `json:"unchanged"`
}

// PageMeta echoes the applied paging.
type PageMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// NewArticleResponse maps a domain article.
func NewArticleResponse(article *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:           article.ID,
		Title:        article.Title,
		Content:      article.Content,
		JournalistID: article.JournalistID,
		PublisherID:  article.PublisherID,
		State:        article.State(),
		Approved:     article.Approved,
		Published:    article.Published,
		IsDraft:      article.IsDraft,
		CreatedAt:    article.CreatedAt,
		UpdatedAt:    article.UpdatedAt,
		PublishedAt:  article.PublishedAt,
	}
}

// NewArticleList maps a listing.
func NewArticleList(articles []domain.Article) []ArticleResponse {
	items := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, NewArticleResponse(&articles[i]))
	}
	return items
}
