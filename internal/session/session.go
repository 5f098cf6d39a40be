package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Arif-miad/education-economic-dashboard/internal/filter"
)

// CookieName is the cookie carrying the session id.
const CookieName = "dashboard_session"

// Context is the state of one browser session.
type Context struct {
	ID            string           `json:"id"`
	Authenticated bool             `json:"authenticated"`
	Filters       filter.Selection `json:"filters"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// New returns a fresh, unauthenticated context.
func New() Context {
	return Context{ID: uuid.New().String(), CreatedAt: time.Now().UTC()}
}

// Store keeps session contexts in memory, keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Context
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]Context)}
}

// Get returns a copy of the context with the given id.
func (s *Store) Get(id string) (Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.sessions[id]
	return ctx, ok
}

// Start creates and stores a new context.
func (s *Store) Start() Context {
	ctx := New()
	s.Save(ctx)
	return ctx
}

// Save stores ctx, replacing any context with the same id.
func (s *Store) Save(ctx Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ctx.ID] = ctx
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
