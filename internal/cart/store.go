package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoSession indicates the session has no cart.
var ErrNoSession = errors.New("cart session not found")

// Store owns one Engine per session. Engines themselves are lock-free; the
// store serialises all access so each engine is mutated by exactly one
// caller at a time. Sessions expire after a period of inactivity.
type Store struct {
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
	TTL             time.Duration
	Now             func() time.Time

	mu    sync.Mutex
	carts map[string]*session
}

type session struct {
	engine   *Engine
	lastSeen time.Time
}

func (s *Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Ensure returns the session's engine, creating a fresh cart when the
// session is unknown or expired. The returned ID equals sessionID unless a
// new session was minted.
func (s *Store) Ensure(sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts == nil {
		s.carts = make(map[string]*session)
	}
	now := s.now()
	if sess, ok := s.carts[sessionID]; ok {
		if now.Sub(sess.lastSeen) <= s.ttl() {
			sess.lastSeen = now
			return sessionID, nil
		}
		delete(s.carts, sessionID)
	}
	engine, err := NewEngine(EngineConfig{DiscountPercent: s.DiscountPercent, TaxRate: s.TaxRate})
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.carts[id] = &session{engine: engine, lastSeen: now}
	return id, nil
}

// Do runs fn with exclusive access to the session's engine.
func (s *Store) Do(sessionID string, fn func(*Engine)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.carts[sessionID]
	if !ok {
		return ErrNoSession
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.ttl() {
		delete(s.carts, sessionID)
		return ErrNoSession
	}
	sess.lastSeen = now
	fn(sess.engine)
	return nil
}

// Prune drops expired sessions and reports how many were removed.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.carts {
		if now.Sub(sess.lastSeen) > s.ttl() {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
