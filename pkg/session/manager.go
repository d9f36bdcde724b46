package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/finvoice/finvoice/internal/config"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/profile"
	log "github.com/sirupsen/logrus"
)

// foregroundRefreshDelay postpones the refresh triggered by a foreground
// event so that rapid foreground/background flips don't hammer the store.
const foregroundRefreshDelay = 3 * time.Second

// ProfileResolver is the slice of the profile repository the manager needs
// for login-time resolution and background refresh.
type ProfileResolver interface {
	FindByPhone(ctx context.Context, phone string) (profile.Profile, error)
	FindByID(ctx context.Context, id string) (profile.Profile, error)
	Create(ctx context.Context, p profile.Profile) (profile.Profile, error)
}

// Manager owns the single active session and every transition of its
// state machine:
//
//	Unauthenticated --login, profile resolved--> Remote
//	Unauthenticated --login, resolution failed--> LocalOnly
//	Remote/LocalOnly --logout--> Unauthenticated
//
// A LocalOnly session never becomes Remote except through a fresh login.
type Manager struct {
	mu       sync.Mutex
	current  Session
	profiles ProfileResolver
	clock    utils.Clock

	coldStartWindow  time.Duration
	foregroundWindow time.Duration
	refreshDelay     time.Duration

	lastRefresh  time.Time
	refreshTimer *time.Timer
}

func NewManager(profiles ProfileResolver, clock utils.Clock, cfg config.Session) *Manager {
	return &Manager{
		current:          Session{Kind: Unauthenticated},
		profiles:         profiles,
		clock:            clock,
		coldStartWindow:  time.Duration(cfg.ColdStartRefreshMinutes) * time.Minute,
		foregroundWindow: time.Duration(cfg.ForegroundRefreshMinutes) * time.Minute,
		refreshDelay:     foregroundRefreshDelay,
	}
}

// Current returns the active session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Login resolves name+phone into a new session, replacing the current one.
// Resolution order is fixed: look up an existing remote profile by phone
// (existing remote data wins over the presented name), else create a remote
// profile, and only when creation fails mint a local-only identity. The
// ordering prevents duplicate remote profiles for returning users.
func (m *Manager) Login(ctx context.Context, name, phone string) (Session, error) {
	existing, err := m.profiles.FindByPhone(ctx, phone)
	if err == nil {
		log.Debugf("adopted existing remote profile %s", existing.ID)
		return m.activate(Session{Kind: Remote, Identity: existing.ID, Profile: existing}), nil
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		log.Warnf("profile lookup failed, falling back to local session: %v", err)
		return m.activateLocal(name, phone), nil
	}

	created, err := m.profiles.Create(ctx, profile.Profile{Name: name, Phone: phone}.WithDefaults())
	if err == nil {
		log.Debugf("created remote profile %s", created.ID)
		return m.activate(Session{Kind: Remote, Identity: created.ID, Profile: created}), nil
	}

	log.Warnf("profile creation failed, falling back to local session: %v", err)
	return m.activateLocal(name, phone), nil
}

// Logout ends the current session. Any pending refresh is dropped.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
		m.refreshTimer = nil
	}
	m.current = Session{Kind: Unauthenticated}
	m.lastRefresh = time.Time{}
	log.Debug("session ended")
}

// RefreshIfStale refreshes cached profile attributes when the cold-start
// freshness window has elapsed. Failures keep the last good attributes.
func (m *Manager) RefreshIfStale(ctx context.Context) {
	m.refreshIfOlderThan(ctx, m.coldStartWindow)
}

// OnForeground handles an app-foreground event: it schedules a debounced
// refresh for remote sessions. A new event replaces any pending timer
// rather than stacking another refresh behind it.
func (m *Manager) OnForeground() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.current.CanUseRemote() {
		log.Debug("skipping profile refresh for non-remote session")
		return
	}
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
	}
	m.refreshTimer = time.AfterFunc(m.refreshDelay, func() {
		m.refreshIfOlderThan(context.Background(), m.foregroundWindow)
	})
}

func (m *Manager) refreshIfOlderThan(ctx context.Context, window time.Duration) {
	m.mu.Lock()
	if !m.current.CanUseRemote() {
		m.mu.Unlock()
		return
	}
	if !m.lastRefresh.IsZero() && m.clock.Now().Sub(m.lastRefresh) <= window {
		log.Debugf("profile refresh skipped, refreshed %s ago", m.clock.Now().Sub(m.lastRefresh))
		m.mu.Unlock()
		return
	}
	identity := m.current.Identity
	m.mu.Unlock()

	refreshed, err := m.profiles.FindByID(ctx, identity)
	if err != nil {
		// Best effort: keep the cached attributes.
		log.Warnf("profile refresh failed, keeping cached attributes: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A logout or re-login may have raced the fetch; never revive a session.
	if m.current.Identity != identity {
		return
	}
	m.current.Profile = refreshed
	m.lastRefresh = m.clock.Now()
	log.Debug("profile attributes refreshed")
}

func (m *Manager) activate(s Session) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
		m.refreshTimer = nil
	}
	m.current = s
	if s.Kind == Remote {
		m.lastRefresh = m.clock.Now()
	} else {
		m.lastRefresh = time.Time{}
	}
	return s
}

func (m *Manager) activateLocal(name, phone string) Session {
	p := profile.Profile{Name: name, Phone: phone}.WithDefaults()
	identity := NewLocalIdentity(m.clock.Now())
	p.ID = identity
	return m.activate(Session{Kind: LocalOnly, Identity: identity, Profile: p})
}
