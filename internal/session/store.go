package session

import (
	"fmt"
	"sync"

	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/logging"
	"go.uber.org/zap"
)

// Store keeps the open sessions of a server process.
type Store struct {
	rates engine.CuttingRates
	log   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewStore creates an empty store whose sessions price cuts with rates.
func NewStore(rates engine.CuttingRates) *Store {
	return &Store{
		rates:    rates,
		log:      logging.Named("session"),
		sessions: map[string]*Session{},
	}
}

// Create opens a new session.
func (st *Store) Create(name string) *Session {
	opts := []Option{WithLogger(st.log)}
	if name != "" {
		opts = append(opts, WithName(name))
	}
	s := New(st.rates, opts...)

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.order = append(st.order, s.ID())
	st.mu.Unlock()

	st.log.Info("session created", zap.String("session", s.ID()), zap.String("name", s.Name()))
	return s
}

// Get returns a session by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, nil
}

// Delete closes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	delete(st.sessions, id)
	for i, sid := range st.order {
		if sid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return nil
}

// Summary is the listing entry of one session.
type Summary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Totals Totals `json:"totals"`
}

// List returns the open sessions in creation order.
func (st *Store) List() []Summary {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.order))
	for _, id := range st.order {
		sessions = append(sessions, st.sessions[id])
	}
	st.mu.RUnlock()

	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, Summary{ID: s.ID(), Name: s.Name(), Totals: s.Totals()})
	}
	return out
}
