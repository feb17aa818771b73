package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/newsroom/internal/domain"
)

type newsletterRepository struct {
	s *Store
}

func (r *newsletterRepository) Create(_ context.Context, newsletter *domain.Newsletter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if newsletter.ID == "" {
		newsletter.ID = uuid.NewString()
	}
	newsletter.CreatedAt = r.s.now()
	r.s.newsletters = append(r.s.newsletters, *newsletter)
	return nil
}

func (r *newsletterRepository) ListByJournalist(_ context.Context, journalistID string, limit, offset int) ([]domain.Newsletter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []domain.Newsletter
	for i := len(r.s.newsletters) - 1; i >= 0; i-- {
		if r.s.newsletters[i].JournalistID == journalistID {
			result = append(result, r.s.newsletters[i])
		}
	}
	return page(result, limit, offset), nil
}
