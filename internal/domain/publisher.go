package domain

import "time"

// Publisher is an organization with a roster of member users.
type Publisher struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublisherMember is a roster entry with the member's role denormalized for listing.
type PublisherMember struct {
	PublisherID string
	UserID      string
	Username    string
	Role        Role
	JoinedAt    time.Time
}
