// Package session keeps one cart and one account per browser session.
package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
	"storefront/internal/store"
)

const persistTimeout = 2 * time.Second

// Session is the per-visitor state: a cart, an account and the bearer token
// the account was restored from, if any.
type Session struct {
	ID      string
	Cart    *store.Cart
	Account *store.Account

	mu       sync.Mutex
	token    string
	lastSeen time.Time
	stop     func()
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry owns all live sessions. Carts are mirrored to the cart
// repository when one is configured so they survive a restart.
type Registry struct {
	carts  cartrepo.Repository
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry evicts sessions idle for longer than ttl. carts may be nil.
func NewRegistry(carts cartrepo.Repository, ttl time.Duration, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Registry{
		carts:    carts,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Resolve returns the session for id, creating one when id is empty,
// malformed or unknown. A well-formed unknown id is reused so a client keeps
// its persisted cart across a server restart.
func (r *Registry) Resolve(ctx context.Context, id string) (*Session, bool) {
	now := r.now()

	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		s.touch(now)
		return s, false
	}
	r.mu.Unlock()

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	s := r.open(ctx, id, now)

	r.mu.Lock()
	if existing, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		s.stop()
		existing.touch(now)
		return existing, false
	}
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Printf("session: created id=%s", id)
	return s, true
}

// Get looks up a live session without creating one.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl and reports how many
// were removed. Persisted carts expire on their own.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.stop()
	}
	if len(expired) > 0 {
		r.logger.Printf("session: swept count=%d", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) open(ctx context.Context, id string, now time.Time) *Session {
	s := &Session{
		ID:       id,
		Cart:     store.NewCart(),
		Account:  store.NewAccount(),
		lastSeen: now,
		stop:     func() {},
	}
	if r.carts == nil {
		return s
	}

	lines, err := r.carts.Get(ctx, id)
	switch {
	case err == nil:
		s.Cart.Restore(lines)
	case errors.Is(err, domain.ErrNotFound):
	default:
		r.logger.Printf("session: restore cart id=%s error=%v", id, err)
	}

	s.stop = s.Cart.Subscribe(r.persister(id))
	return s
}

// persister mirrors cart snapshots to the repository, skipping snapshots
// older than the last one written.
func (r *Registry) persister(id string) func(store.CartState) {
	var (
		mu   sync.Mutex
		last uint64
	)
	return func(state store.CartState) {
		mu.Lock()
		defer mu.Unlock()
		if state.Version <= last {
			return
		}
		last = state.Version

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := r.carts.Save(ctx, id, state.Lines); err != nil {
			r.logger.Printf("session: persist cart id=%s error=%v", id, err)
		}
	}
}
