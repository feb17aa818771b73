package dto

import (
	"time"

	"github.com/spec-kit/newsroom/internal/domain"
)

// UserRegisterRequest payload for new accounts.
type UserRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserLoginRequest payload for login. Username may also hold an email address.
type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserProfile is the public view of an account.
type UserProfile struct {
	ID           string              `json:"id"`
	Username     string              `json:"username"`
	Email        string              `json:"email,omitempty"`
	Role         domain.Role         `json:"role"`
	Capabilities []domain.Capability `json:"capabilities,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// NewUserProfile renders the caller's own account.
func NewUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		Capabilities: user.Role.Capabilities(),
		CreatedAt:    user.CreatedAt,
	}
}
