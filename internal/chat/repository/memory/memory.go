// Package memory backs the session store with an expirable LRU: sessions
// idle past the TTL or beyond capacity are dropped together with their
// dataset. Chart files are tracked separately and survive session eviction.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"datachat/internal/chat"
	"datachat/internal/chat/repository"
)

const (
	DefaultMaxEntries = 1024
	DefaultTTL        = 2 * time.Hour
)

type store struct {
	sessions *expirable.LRU[string, *chat.Session]
}

var _ repository.Repository = (*store)(nil)

// New creates an in-memory session store. Zero values select the defaults.
func New(maxEntries int, ttl time.Duration) repository.Repository {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &store{
		sessions: expirable.NewLRU[string, *chat.Session](maxEntries, nil, ttl),
	}
}

func (s *store) GetSession(_ context.Context, id string) (*chat.Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *store) SaveSession(_ context.Context, session *chat.Session) error {
	session.LastSeen = time.Now()
	s.sessions.Add(session.ID, session)
	return nil
}

func (s *store) DeleteSession(_ context.Context, id string) error {
	s.sessions.Remove(id)
	return nil
}

func (s *store) CountSessions(_ context.Context) int {
	return s.sessions.Len()
}
