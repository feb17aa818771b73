package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/newsroom/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	user := &domain.User{ID: "u-1", Role: domain.RoleEditor}

	issued, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := tm.ParseToken(issued.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.RoleEditor, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	user := &domain.User{ID: "u-1", Role: domain.RoleReader}
	issued, err := tm.GenerateToken(user)
	require.NoError(t, err)

	expired := NewTokenManager("secret", 1)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		tm    *TokenManager
	}{
		{name: "wrong secret", token: issued.Value, tm: NewTokenManager("other", 30)},
		{name: "garbage", token: "not-a-jwt", tm: tm},
		{name: "expired", token: old.Value, tm: tm},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tm.ParseToken(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short", 4)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.Error(t, ComparePassword(hash, "battery staple"))
}
