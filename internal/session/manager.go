// Package session owns the only process-wide mutable session state: one
// reactive {identity, profile, loading} value, written by a single observer
// of identity-provider state changes and read by everything else.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

// Snapshot is an atomic replacement value; consumers never see a partially
// updated session.
type Snapshot struct {
	Identity *domain.Identity
	Profile  *domain.UserProfile
	Loading  bool
}

// IdentityProvider pushes identity state changes: the current identity
// immediately on subscribe if one is cached, then every sign-in/out.
// A nil identity means signed out.
type IdentityProvider interface {
	Subscribe(fn func(identity *domain.Identity)) (cancel func())
}

// ProfileStore is the slice of the data layer the manager needs for the
// per-user profile bootstrap.
type ProfileStore interface {
	Ensure(ctx context.Context, identity *domain.Identity, defaults domain.ProfileDefaults) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
}

type Config struct {
	Provider IdentityProvider
	Store    ProfileStore
	Defaults domain.ProfileDefaults

	// HydrationDelay is the window after Start during which Current reports
	// not-ready, so a consumer that evaluates before the first provider event
	// does not mistake "no event yet" for "signed out". Zero means next tick.
	HydrationDelay time.Duration
}

type Manager struct {
	log            *logger.Logger
	provider       IdentityProvider
	store          ProfileStore
	defaults       domain.ProfileDefaults
	hydrationDelay time.Duration

	mu       sync.RWMutex
	snap     Snapshot
	mounted  bool
	hydrated bool

	events chan *domain.Identity
	stop   chan struct{}
	unsub  func()
	timer  *time.Timer

	watchMu  sync.Mutex
	watchers map[int]chan Snapshot
	nextID   int
}

func NewManager(log *logger.Logger, cfg Config) *Manager {
	return &Manager{
		log:            log.With("component", "SessionManager"),
		provider:       cfg.Provider,
		store:          cfg.Store,
		defaults:       cfg.Defaults,
		hydrationDelay: cfg.HydrationDelay,
		snap:           Snapshot{Loading: true},
		events:         make(chan *domain.Identity, 16),
		stop:           make(chan struct{}),
		watchers:       make(map[int]chan Snapshot),
	}
}

// Start subscribes to the identity provider exactly once and begins
// processing state changes. Events are handled strictly in order on a single
// goroutine: a sign-out arriving behind a sign-in cannot interleave with the
// sign-in's profile bootstrap.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.mounted {
		m.mu.Unlock()
		return
	}
	m.mounted = true
	m.mu.Unlock()

	m.unsub = m.provider.Subscribe(func(identity *domain.Identity) {
		select {
		case m.events <- identity:
		case <-m.stop:
		}
	})

	delay := m.hydrationDelay
	m.timer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		m.hydrated = true
		m.mu.Unlock()
	})

	go m.loop(ctx)
}

func (m *Manager) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case identity := <-m.events:
			m.handle(ctx, identity)
		}
	}
}

func (m *Manager) handle(ctx context.Context, identity *domain.Identity) {
	if identity == nil {
		m.publish(Snapshot{Identity: nil, Profile: nil, Loading: false})
		return
	}

	m.publish(Snapshot{Identity: identity, Profile: nil, Loading: true})

	// Ensure strictly before read: first sign-in must not race its own
	// profile creation.
	var profile *domain.UserProfile
	err := m.store.Ensure(ctx, identity, m.defaults)
	if err == nil {
		profile, err = m.store.Get(ctx, identity.ID)
	}
	if err != nil {
		// Availability over correctness here: a degraded session with no
		// profile beats an application stuck loading forever.
		m.log.Error("profile bootstrap failed", "user_id", identity.ID, "error", err)
		profile = nil
	}

	m.publish(Snapshot{Identity: identity, Profile: profile, Loading: false})
}

// publish replaces the snapshot unless the manager has been closed; a late
// continuation after Close is a no-op.
func (m *Manager) publish(snap Snapshot) {
	m.mu.Lock()
	if !m.mounted {
		m.mu.Unlock()
		return
	}
	m.snap = snap
	m.mu.Unlock()

	m.watchMu.Lock()
	for _, ch := range m.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
	m.watchMu.Unlock()
}

// Current returns the session snapshot. ok is false until the hydration
// window has elapsed; during that window callers must produce no output at
// all rather than a loading or signed-out view.
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, m.hydrated
}

// Watch returns a channel of snapshot replacements and a cancel handle owned
// by the caller.
func (m *Manager) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 4)

	m.watchMu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.watchMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.watchMu.Lock()
			delete(m.watchers, id)
			m.watchMu.Unlock()
		})
	}
	return ch, cancel
}

// Close tears the manager down: the provider subscription is cancelled and
// any in-flight bootstrap that resolves afterwards publishes nothing.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.mounted {
		m.mu.Unlock()
		return
	}
	m.mounted = false
	m.mu.Unlock()

	if m.unsub != nil {
		m.unsub()
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	close(m.stop)
}
