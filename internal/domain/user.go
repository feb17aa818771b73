package domain

import "time"

// User is a registered account holding exactly one role.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Is reports whether u and other refer to the same account.
func (u *User) Is(other *User) bool {
	return u != nil && other != nil && u.ID == other.ID
}

// IsJournalist is a convenience for author checks.
func (u *User) IsJournalist() bool {
	return u != nil && u.Role == RoleJournalist
}
