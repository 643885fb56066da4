// Package session stores the per-conversation language between turns.
package session

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	lang    string
	expires time.Time
}

// MemoryStore is an in-process ports.SessionStore. Entries expire after
// the configured TTL; a zero TTL keeps them for the process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Language returns the stored language for sessionID.
func (s *MemoryStore) Language(ctx context.Context, sessionID string) (string, bool, error) {
	s.mu.RLock()
	item, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !item.expires.IsZero() && s.now().After(item.expires) {
		s.mu.Lock()
		if cur, ok := s.items[sessionID]; ok && cur.expires.Equal(item.expires) {
			delete(s.items, sessionID)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return item.lang, true, nil
}

// SetLanguage records lang for sessionID and refreshes its expiry.
func (s *MemoryStore) SetLanguage(ctx context.Context, sessionID, lang string) error {
	item := memoryItem{lang: lang}
	if s.ttl > 0 {
		item.expires = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.items[sessionID] = item
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
