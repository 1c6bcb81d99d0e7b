// internal/domain/shop/sessions.go
package shop

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PersisterFor returns the persister scoped to one visitor session
type PersisterFor func(sessionID string) Persister

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// Sessions owns one Store per visitor session. A store is hydrated on first
// use and dropped after sitting idle; its persisted cart and wishlist survive
// and are reloaded on the next visit.
type Sessions struct {
	mu           sync.Mutex
	entries      map[string]*sessionEntry
	persisterFor PersisterFor
	products     ProductSource
	log          logrus.FieldLogger
	idle         time.Duration
	searchLimit  int
	now          func() time.Time
	onEvict      []func(sessionID string)
}

// NewSessions creates the session registry. Every store searches the shared
// products source.
func NewSessions(persisterFor PersisterFor, products ProductSource, idle time.Duration, searchLimit int, log logrus.FieldLogger) *Sessions {
	return &Sessions{
		entries:      make(map[string]*sessionEntry),
		persisterFor: persisterFor,
		products:     products,
		log:          log.WithField("component", "sessions"),
		idle:         idle,
		searchLimit:  searchLimit,
		now:          time.Now,
	}
}

// OnEvict registers fn to run with the id of every session dropped for
// being idle. Register before serving requests.
func (s *Sessions) OnEvict(fn func(sessionID string)) {
	s.mu.Lock()
	s.onEvict = append(s.onEvict, fn)
	s.mu.Unlock()
}

// Open returns the store of sessionID, hydrating it if needed
func (s *Sessions) Open(ctx context.Context, sessionID string) *Store {
	s.mu.Lock()
	now := s.now()
	evicted := s.sweep(now)
	hooks := s.onEvict
	e, ok := s.entries[sessionID]
	if ok {
		e.lastSeen = now
	}
	s.mu.Unlock()

	s.notify(hooks, evicted)
	if ok {
		return e.store
	}

	store := NewStore(s.persisterFor(sessionID), WithSearchLimit(s.searchLimit), WithProducts(s.products))
	if err := store.Load(ctx); err != nil {
		// Start empty; the next successful write overwrites the stored copy
		s.log.WithError(err).WithField("session_id", sessionID).Warn("Failed to hydrate shop state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have opened the session meanwhile
	if e, ok := s.entries[sessionID]; ok {
		e.lastSeen = now
		return e.store
	}
	s.entries[sessionID] = &sessionEntry{store: store, lastSeen: now}
	return store
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops idle sessions and returns their ids; caller holds s.mu
func (s *Sessions) sweep(now time.Time) []string {
	if s.idle <= 0 {
		return nil
	}
	var evicted []string
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.idle {
			delete(s.entries, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (s *Sessions) notify(hooks []func(string), evicted []string) {
	if len(evicted) == 0 {
		return
	}
	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
	}
	s.log.WithField("sessions", len(evicted)).Debug("Evicted idle sessions")
}
