package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
)

type publisherRepository struct {
	s *Store
}

func (r *publisherRepository) Create(_ context.Context, publisher *domain.Publisher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if publisher.ID == "" {
		publisher.ID = uuid.NewString()
	}
	now := r.s.now()
	publisher.CreatedAt = now
	publisher.UpdatedAt = now
	r.s.publishers[publisher.ID] = *publisher
	return nil
}

func (r *publisherRepository) CreateWithOwner(_ context.Context, publisher *domain.Publisher, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[ownerID]; !ok {
		return repository.ErrReferenced
	}
	if publisher.ID == "" {
		publisher.ID = uuid.NewString()
	}
	now := r.s.now()
	publisher.CreatedAt = now
	publisher.UpdatedAt = now
	r.s.publishers[publisher.ID] = *publisher
	r.s.members[publisher.ID] = map[string]time.Time{ownerID: now}
	return nil
}

func (r *publisherRepository) GetByID(_ context.Context, id string) (*domain.Publisher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	publisher, ok := r.s.publishers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &publisher, nil
}

func (r *publisherRepository) List(_ context.Context, limit, offset int) ([]domain.Publisher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Publisher, 0, len(r.s.publishers))
	for _, p := range r.s.publishers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return page(result, limit, offset), nil
}

func (r *publisherRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.publishers[id]; !ok {
		return repository.ErrNotFound
	}
	for _, article := range r.s.articles {
		if article.BelongsTo(id) {
			return repository.ErrReferenced
		}
	}
	delete(r.s.members, id)
	for _, followed := range r.s.pubSubs {
		delete(followed, id)
	}
	delete(r.s.publishers, id)
	return nil
}

func (r *publisherRepository) AddMember(_ context.Context, publisherID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	roster, ok := r.s.members[publisherID]
	if !ok {
		roster = make(map[string]time.Time)
		r.s.members[publisherID] = roster
	}
	if _, exists := roster[userID]; !exists {
		roster[userID] = r.s.now()
	}
	return nil
}

func (r *publisherRepository) RemoveMember(_ context.Context, publisherID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	roster := r.s.members[publisherID]
	if _, ok := roster[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(roster, userID)
	return nil
}

func (r *publisherRepository) IsMember(_ context.Context, publisherID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.members[publisherID][userID]
	return ok, nil
}

func (r *publisherRepository) ListMembers(_ context.Context, publisherID string) ([]domain.PublisherMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []domain.PublisherMember
	for userID, joinedAt := range r.s.members[publisherID] {
		user := r.s.users[userID]
		result = append(result, domain.PublisherMember{
			PublisherID: publisherID,
			UserID:      userID,
			Username:    user.Username,
			Role:        user.Role,
			JoinedAt:    joinedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].JoinedAt.Equal(result[j].JoinedAt) {
			return result[i].Username < result[j].Username
		}
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}
