// Package memory implements the repository interfaces in process memory. It
// backs the service when no Postgres DSN is configured and in tests.
package memory

import (
	"sync"
	"time"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
)

// Store holds all tables behind one lock so cascading deletes stay atomic.
type Store struct {
	mu sync.RWMutex

	users       map[string]domain.User
	publishers  map[string]domain.Publisher
	members     map[string]map[string]time.Time // publisher id -> user id -> joined at
	articles    map[string]storedArticle
	newsletters []domain.Newsletter
	pubSubs     map[string]map[string]struct{} // reader id -> publisher ids
	journSubs   map[string]map[string]struct{} // reader id -> journalist ids

	seq int64
	now func() time.Time
}

type storedArticle struct {
	domain.Article
	seq int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		publishers: make(map[string]domain.Publisher),
		members:    make(map[string]map[string]time.Time),
		articles:   make(map[string]storedArticle),
		pubSubs:    make(map[string]map[string]struct{}),
		journSubs:  make(map[string]map[string]struct{}),
		now:        time.Now,
	}
}

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Publishers exposes the store as a PublisherRepository.
func (s *Store) Publishers() repository.PublisherRepository { return &publisherRepository{s} }

// Articles exposes the store as an ArticleRepository.
func (s *Store) Articles() repository.ArticleRepository { return &articleRepository{s} }

// Newsletters exposes the store as a NewsletterRepository.
func (s *Store) Newsletters() repository.NewsletterRepository { return &newsletterRepository{s} }

// Subscriptions exposes the store as a SubscriptionRepository.
func (s *Store) Subscriptions() repository.SubscriptionRepository { return &subscriptionRepository{s} }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneArticle(a domain.Article) domain.Article {
	a.JournalistID = cloneString(a.JournalistID)
	a.PublisherID = cloneString(a.PublisherID)
	a.PublishedAt = cloneTime(a.PublishedAt)
	return a
}

func page[T any](items []T, limit, offset int) []T {
	limit, offset = repository.NormalizePage(limit, offset)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
