package domain

import "time"

// ArticleState is the lifecycle position derived from the approval flags.
type ArticleState string

const (
	ArticleStateDraft     ArticleState = "DRAFT"
	ArticleStateApproved  ArticleState = "APPROVED"
	ArticleStatePublished ArticleState = "PUBLISHED"
)

// Title length bounds, counted in runes after trimming.
const (
	MinTitleLength = 5
	MaxTitleLength = 255
)

// Article is a news article moving through draft, approval and publication.
// JournalistID and PublisherID are nil for orphaned and independent articles
// respectively. Published implies Approved.
type Article struct {
	ID           string
	Title        string
	Content      string
	JournalistID *string
	PublisherID  *string
	Approved     bool
	Published    bool
	IsDraft      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PublishedAt  *time.Time
}

// State derives the lifecycle state.
func (a *Article) State() ArticleState {
	switch {
	case a.Published:
		return ArticleStatePublished
	case a.Approved:
		return ArticleStateApproved
	default:
		return ArticleStateDraft
	}
}

// IsIndependent reports whether the article has no owning publisher.
func (a *Article) IsIndependent() bool {
	return a.PublisherID == nil
}

// AuthoredBy reports whether user is the owning journalist.
func (a *Article) AuthoredBy(user *User) bool {
	return user != nil && a.JournalistID != nil && *a.JournalistID == user.ID
}

// BelongsTo reports whether the article is owned by the given publisher.
func (a *Article) BelongsTo(publisherID string) bool {
	return a.PublisherID != nil && *a.PublisherID == publisherID
}
