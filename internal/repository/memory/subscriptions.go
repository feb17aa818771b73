package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
)

type subscriptionRepository struct {
	s *Store
}

// table must be called with the lock held.
func (r *subscriptionRepository) table(kind domain.SubscriptionKind) (map[string]map[string]struct{}, error) {
	switch kind {
	case domain.SubscriptionPublisher:
		return r.s.pubSubs, nil
	case domain.SubscriptionJournalist:
		return r.s.journSubs, nil
	default:
		return nil, fmt.Errorf("unknown subscription kind %q", kind)
	}
}

func (r *subscriptionRepository) Subscribe(_ context.Context, readerID string, kind domain.SubscriptionKind, targetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	table, err := r.table(kind)
	if err != nil {
		return err
	}
	followed, ok := table[readerID]
	if !ok {
		followed = make(map[string]struct{})
		table[readerID] = followed
	}
	followed[targetID] = struct{}{}
	return nil
}

func (r *subscriptionRepository) Unsubscribe(_ context.Context, readerID string, kind domain.SubscriptionKind, targetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	table, err := r.table(kind)
	if err != nil {
		return err
	}
	if _, ok := table[readerID][targetID]; !ok {
		return repository.ErrNotFound
	}
	delete(table[readerID], targetID)
	return nil
}

func (r *subscriptionRepository) List(_ context.Context, readerID string) (*domain.Subscriptions, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return &domain.Subscriptions{
		ReaderID:      readerID,
		PublisherIDs:  sortedKeys(r.s.pubSubs[readerID]),
		JournalistIDs: sortedKeys(r.s.journSubs[readerID]),
	}, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
