// Package session owns the process-scoped browsing sessions. A session holds
// exactly one cart store, one checkout flow and one visibility watcher; all
// of it lives in memory and is discarded when the session expires or the
// process restarts.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	cartapp "github.com/lockin-coffee/storefront/internal/cart/app"
	catalogapp "github.com/lockin-coffee/storefront/internal/catalog/app"
	checkoutapp "github.com/lockin-coffee/storefront/internal/checkout/app"
	"github.com/lockin-coffee/storefront/internal/engage"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID       string
	Cart     *cartapp.Store
	Checkout *checkoutapp.Flow
	Watcher  *engage.Watcher

	lastSeen time.Time
}

type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
	ViewThreshold float64
	Checkout      checkoutapp.FlowConfig
}

type Manager struct {
	catalog  *catalogapp.Service
	payments checkoutapp.PaymentClient
	cfg      Config
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(catalog *catalogapp.Service, payments checkoutapp.PaymentClient, cfg Config, log *slog.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Manager{
		catalog:  catalog,
		payments: payments,
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Create builds a fresh session: empty cart, viewed-set, watcher and
// checkout flow, all wired to each other.
func (m *Manager) Create() *Session {
	store := cartapp.NewStore()
	viewed := engage.NewViewedSet()

	s := &Session{
		ID:       uuid.NewString(),
		Cart:     store,
		Checkout: checkoutapp.NewFlow(store, m.payments, m.cfg.Checkout, m.log),
		Watcher:  engage.NewWatcher(m.catalog, store, viewed, m.cfg.ViewThreshold, m.log),
		lastSeen: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Debug("session created", slog.String("session_id", s.ID))
	return s
}

// Get returns the session and refreshes its idle clock.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = time.Now()
	return s, nil
}

// Drop tears the session down: the watcher is closed before the session is
// removed so no late visibility event can mutate a discarded cart.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Watcher.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	var expired []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.cfg.TTL {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Watcher.Close()
		m.log.Debug("session expired", slog.String("session_id", s.ID))
	}
}
