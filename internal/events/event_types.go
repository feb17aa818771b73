package events

import (
	"time"

	"github.com/spec-kit/newsroom/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventArticleCreated   EventType = "article_created"
	EventArticleUpdated   EventType = "article_updated"
	EventArticleApproved  EventType = "article_approved"
	EventArticlePublished EventType = "article_published"
	EventArticleDeleted   EventType = "article_deleted"
)

// ArticleEventTypes lists every article lifecycle event.
func ArticleEventTypes() []EventType {
	return []EventType{
		EventArticleCreated,
		EventArticleUpdated,
		EventArticleApproved,
		EventArticlePublished,
		EventArticleDeleted,
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ArticleID string      `json:"article_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ArticleCreatedPayload payload.
type ArticleCreatedPayload struct {
	Title        string  `json:"title"`
	JournalistID *string `json:"journalist_id,omitempty"`
	PublisherID  *string `json:"publisher_id,omitempty"`
}

// ArticleUpdatedPayload payload.
type ArticleUpdatedPayload struct {
	Title       string  `json:"title"`
	PublisherID *string `json:"publisher_id,omitempty"`
}

// ArticleApprovedPayload carries what the approval notice needs.
type ArticleApprovedPayload struct {
	Title           string  `json:"title"`
	JournalistID    *string `json:"journalist_id,omitempty"`
	JournalistEmail string  `json:"-"`
	PublisherID     *string `json:"publisher_id,omitempty"`
}

// ArticlePublishedPayload payload.
type ArticlePublishedPayload struct {
	Title       string    `json:"title"`
	PublisherID *string   `json:"publisher_id,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// ArticleDeletedPayload payload.
type ArticleDeletedPayload struct {
	Title     string              `json:"title"`
	LastState domain.ArticleState `json:"last_state"`
}
