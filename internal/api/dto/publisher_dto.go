package dto

import (
	"time"

	"github.com/spec-kit/newsroom/internal/domain"
)

// CreatePublisherRequest payload.
type CreatePublisherRequest struct {
	Name string `json:"name"`
}

// AddMemberRequest payload.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// PublisherSummary is a publisher without its roster.
type PublisherSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberResponse is one roster entry.
type MemberResponse struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// PublisherDetail is a publisher with its roster.
type PublisherDetail struct {
	PublisherSummary
	Members []MemberResponse `json:"members"`
}

// SubscriptionsResponse lists what a reader follows.
type SubscriptionsResponse struct {
	PublisherIDs  []string `json:"publisher_ids"`
	JournalistIDs []string `json:"journalist_ids"`
}

// CreateNewsletterRequest payload.
type CreateNewsletterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewsletterResponse renders a newsletter.
type NewsletterResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	JournalistID string    `json:"journalist_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPublisherSummary maps a publisher.
func NewPublisherSummary(p domain.Publisher) PublisherSummary {
	return PublisherSummary{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

// NewPublisherDetail maps a publisher and its members.
func NewPublisherDetail(p domain.Publisher, members []domain.PublisherMember) PublisherDetail {
	detail := PublisherDetail{PublisherSummary: NewPublisherSummary(p), Members: make([]MemberResponse, 0, len(members))}
	for _, m := range members {
		detail.Members = append(detail.Members, MemberResponse{
			UserID:   m.UserID,
			Username: m.Username,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return detail
}

// NewSubscriptionsResponse maps a reader's subscriptions.
func NewSubscriptionsResponse(s *domain.Subscriptions) SubscriptionsResponse {
	return SubscriptionsResponse{PublisherIDs: s.PublisherIDs, JournalistIDs: s.JournalistIDs}
}

// NewNewsletterResponse maps a newsletter.
func NewNewsletterResponse(n *domain.Newsletter) NewsletterResponse {
	return NewsletterResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		JournalistID: n.JournalistID,
		CreatedAt:    n.CreatedAt,
	}
}
