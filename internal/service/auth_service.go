package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// RegisterInput describes a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User  *domain.User
	Token auth.IssuedToken
}

// AuthService coordinates registration, login and account removal.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationStore
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Revocation auth.RevocationStore
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	revoked := deps.Revocation
	if revoked == nil {
		revoked = auth.NewMemoryRevocationStore()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoked:    revoked,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Register creates an account with a fixed role and signs the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	details := map[string]any{}
	if len(username) < 3 {
		details["username"] = "username must be at least 3 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		details["email"] = "a valid email address is required"
	}
	if len(input.Password) < auth.MinPasswordLength {
		details["password"] = "password must be at least 8 characters"
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		details["role"] = "role must be one of reader, journalist, editor, publisher"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details)
	}

	if err := s.ensureUnused(ctx, email, username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("username or email already registered",
				map[string]any{"username": username, "email": email})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return s.issue(user)
}

// Login authenticates by username or email.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return apperrors.NewUnauthorized("token required")
	}
	if err := s.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// DeleteAccount removes the actor's account and revokes the calling token.
// It is refused while the actor still authors articles.
func (s *AuthService) DeleteAccount(ctx context.Context, actor *domain.User, tokenID string, expiresAt time.Time) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, actor.ID); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperrors.NewConflict("delete or hand over your articles before deleting the account",
				map[string]any{"user_id": actor.ID})
		}
		return translateRepoErr(err, "user", actor.ID)
	}
	s.logger.Info("account deleted", zap.String("user_id", actor.ID))
	if tokenID != "" {
		if err := s.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
			s.logger.Warn("token revocation after account deletion failed", zap.Error(err))
		}
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RevocationStore exposes the store checked by the auth middleware.
func (s *AuthService) RevocationStore() auth.RevocationStore {
	return s.revoked
}

func (s *AuthService) ensureUnused(ctx context.Context, email, username string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return apperrors.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Session{User: user, Token: token}, nil
}
