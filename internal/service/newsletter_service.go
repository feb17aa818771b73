package service

import (
	"context"
	"strings"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// NewsletterService stores journalists' newsletters. Newsletters have no workflow.
type NewsletterService struct {
	newsletters repository.NewsletterRepository
}

// NewNewsletterService constructs the service.
func NewNewsletterService(newsletters repository.NewsletterRepository) *NewsletterService {
	return &NewsletterService{newsletters: newsletters}
}

// CreateNewsletter stores a newsletter owned by the acting journalist.
func (s *NewsletterService) CreateNewsletter(ctx context.Context, actor *domain.User, title, content string) (*domain.Newsletter, error) {
	if err := requireCapability(actor, domain.CapWriteNewsletter); err != nil {
		return nil, err
	}
	validTitle, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	newsletter := &domain.Newsletter{
		Title:        validTitle,
		Content:      strings.TrimSpace(content),
		JournalistID: actor.ID,
	}
	if err := s.newsletters.Create(ctx, newsletter); err != nil {
		return nil, translateWriteErr(err, "journalist", actor.ID)
	}
	return newsletter, nil
}

// ListOwn returns the actor's newsletters, newest first.
func (s *NewsletterService) ListOwn(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Newsletter, error) {
	if err := requireCapability(actor, domain.CapWriteNewsletter); err != nil {
		return nil, err
	}
	newsletters, err := s.newsletters.ListByJournalist(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if newsletters == nil {
		newsletters = []domain.Newsletter{}
	}
	return newsletters, nil
}
