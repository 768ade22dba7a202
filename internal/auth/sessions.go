package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionStore keeps issued tokens server-side, keyed by an opaque session id.
// Entries expire with the token TTL; the oldest are evicted past size.
// The store is process-local.
type SessionStore struct {
	cache *expirable.LRU[string, string]
}

func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: expirable.NewLRU[string, string](size, nil, ttl)}
}

// Create stores token under a new random session id and returns the id.
func (s *SessionStore) Create(token string) string {
	id := uuid.NewString()
	s.cache.Add(id, token)
	return id
}

func (s *SessionStore) Token(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	return s.cache.Get(id)
}

func (s *SessionStore) Delete(id string) {
	s.cache.Remove(id)
}

func (s *SessionStore) Len() int {
	return s.cache.Len()
}
