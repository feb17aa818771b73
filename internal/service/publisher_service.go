package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

const maxPublisherNameLength = 255

// PublisherDetail is a publisher with its roster.
type PublisherDetail struct {
	Publisher domain.Publisher
	Members   []domain.PublisherMember
}

// PublisherService manages publishers and their rosters.
type PublisherService struct {
	publishers repository.PublisherRepository
	users      repository.UserRepository
	logger     *zap.Logger
}

// PublisherDependencies bundles repositories.
type PublisherDependencies struct {
	PublisherRepo repository.PublisherRepository
	UserRepo      repository.UserRepository
	Logger        *zap.Logger
}

// NewPublisherService constructs the service.
func NewPublisherService(deps PublisherDependencies) *PublisherService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublisherService{publishers: deps.PublisherRepo, users: deps.UserRepo, logger: logger}
}

// CreatePublisher creates a publisher with the actor as its first member.
func (s *PublisherService) CreatePublisher(ctx context.Context, actor *domain.User, name string) (*PublisherDetail, error) {
	if err := requireCapability(actor, domain.CapManagePublisher); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxPublisherNameLength {
		return nil, apperrors.NewFieldError("name", "name must be between 1 and 255 characters")
	}

	publisher := &domain.Publisher{Name: name}
	if err := s.publishers.CreateWithOwner(ctx, publisher, actor.ID); err != nil {
		return nil, translateWriteErr(err, "user", actor.ID)
	}
	s.logger.Info("publisher created", zap.String("publisher_id", publisher.ID), zap.String("owner_id", actor.ID))
	return s.GetPublisher(ctx, publisher.ID)
}

// GetPublisher returns the publisher and its members.
func (s *PublisherService) GetPublisher(ctx context.Context, publisherID string) (*PublisherDetail, error) {
	publisher, err := s.publishers.GetByID(ctx, publisherID)
	if err != nil {
		return nil, translateRepoErr(err, "publisher", publisherID)
	}
	members, err := s.publishers.ListMembers(ctx, publisherID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if members == nil {
		members = []domain.PublisherMember{}
	}
	return &PublisherDetail{Publisher: *publisher, Members: members}, nil
}

// ListPublishers pages through publishers by name.
func (s *PublisherService) ListPublishers(ctx context.Context, limit, offset int) ([]domain.Publisher, error) {
	publishers, err := s.publishers.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if publishers == nil {
		publishers = []domain.Publisher{}
	}
	return publishers, nil
}

// AddMember adds a journalist, editor or publisher to the roster.
func (s *PublisherService) AddMember(ctx context.Context, actor *domain.User, publisherID, userID string) (*PublisherDetail, error) {
	if err := s.requireManager(ctx, actor, publisherID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translateRepoErr(err, "user", userID)
	}
	if !user.Role.CanJoinPublisher() {
		return nil, apperrors.NewFieldError("user_id", "readers cannot join a publisher")
	}
	if err := s.publishers.AddMember(ctx, publisherID, userID); err != nil {
		return nil, translateWriteErr(err, "publisher", publisherID)
	}
	s.logger.Info("publisher member added", zap.String("publisher_id", publisherID), zap.String("user_id", userID))
	return s.GetPublisher(ctx, publisherID)
}

// RemoveMember drops a user from the roster.
func (s *PublisherService) RemoveMember(ctx context.Context, actor *domain.User, publisherID, userID string) error {
	if err := s.requireManager(ctx, actor, publisherID); err != nil {
		return err
	}
	if err := s.publishers.RemoveMember(ctx, publisherID, userID); err != nil {
		return translateRepoErr(err, "member", userID)
	}
	s.logger.Info("publisher member removed", zap.String("publisher_id", publisherID), zap.String("user_id", userID))
	return nil
}

// DeletePublisher removes an unreferenced publisher with its roster and followers.
func (s *PublisherService) DeletePublisher(ctx context.Context, actor *domain.User, publisherID string) error {
	if err := s.requireManager(ctx, actor, publisherID); err != nil {
		return err
	}
	if err := s.publishers.Delete(ctx, publisherID); err != nil {
		return translateRepoErr(err, "publisher", publisherID)
	}
	s.logger.Info("publisher deleted", zap.String("publisher_id", publisherID), zap.String("actor_id", actor.ID))
	return nil
}

// requireManager passes for publisher-role members of the publisher.
func (s *PublisherService) requireManager(ctx context.Context, actor *domain.User, publisherID string) error {
	if err := requireCapability(actor, domain.CapManagePublisher); err != nil {
		return err
	}
	if _, err := s.publishers.GetByID(ctx, publisherID); err != nil {
		return translateRepoErr(err, "publisher", publisherID)
	}
	member, err := s.publishers.IsMember(ctx, publisherID, actor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !member {
		return apperrors.NewForbidden("only members of the publisher may manage it")
	}
	return nil
}
