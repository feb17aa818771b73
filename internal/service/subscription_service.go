package service

import (
	"context"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// SubscriptionService lets readers follow publishers and journalists.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	publishers    repository.PublisherRepository
	users         repository.UserRepository
}

// SubscriptionDependencies bundles repositories.
type SubscriptionDependencies struct {
	SubscriptionRepo repository.SubscriptionRepository
	PublisherRepo    repository.PublisherRepository
	UserRepo         repository.UserRepository
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(deps SubscriptionDependencies) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: deps.SubscriptionRepo,
		publishers:    deps.PublisherRepo,
		users:         deps.UserRepo,
	}
}

// Follow subscribes the reader to a publisher or journalist. Following twice is harmless.
func (s *SubscriptionService) Follow(ctx context.Context, actor *domain.User, kind domain.SubscriptionKind, targetID string) (*domain.Subscriptions, error) {
	if err := requireCapability(actor, domain.CapSubscribe); err != nil {
		return nil, err
	}
	if err := s.ensureTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Subscribe(ctx, actor.ID, kind, targetID); err != nil {
		return nil, translateWriteErr(err, string(kind), targetID)
	}
	return s.List(ctx, actor)
}

// Unfollow removes a subscription.
func (s *SubscriptionService) Unfollow(ctx context.Context, actor *domain.User, kind domain.SubscriptionKind, targetID string) (*domain.Subscriptions, error) {
	if err := requireCapability(actor, domain.CapSubscribe); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Unsubscribe(ctx, actor.ID, kind, targetID); err != nil {
		return nil, translateRepoErr(err, "subscription", targetID)
	}
	return s.List(ctx, actor)
}

// List returns everything the reader follows.
func (s *SubscriptionService) List(ctx context.Context, actor *domain.User) (*domain.Subscriptions, error) {
	if err := requireCapability(actor, domain.CapSubscribe); err != nil {
		return nil, err
	}
	subs, err := s.subscriptions.List(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if subs.PublisherIDs == nil {
		subs.PublisherIDs = []string{}
	}
	if subs.JournalistIDs == nil {
		subs.JournalistIDs = []string{}
	}
	return subs, nil
}

func (s *SubscriptionService) ensureTarget(ctx context.Context, kind domain.SubscriptionKind, targetID string) error {
	switch kind {
	case domain.SubscriptionPublisher:
		if _, err := s.publishers.GetByID(ctx, targetID); err != nil {
			return translateRepoErr(err, "publisher", targetID)
		}
	case domain.SubscriptionJournalist:
		user, err := s.users.GetByID(ctx, targetID)
		if err != nil {
			return translateRepoErr(err, "journalist", targetID)
		}
		if !user.IsJournalist() {
			return apperrors.NewFieldError("journalist_id", "user is not a journalist")
		}
	default:
		return apperrors.NewFieldError("kind", "unknown subscription kind")
	}
	return nil
}
