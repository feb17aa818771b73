package domain

import "time"

// Newsletter is a write-only piece authored by a journalist.
type Newsletter struct {
	ID           string
	Title        string
	Content      string
	JournalistID string
	CreatedAt    time.Time
}
