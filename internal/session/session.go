// Package session owns the process-wide record of whether, and as whom, the
// user is currently authenticated. Exactly one Manager exists per process;
// it is injected into every component that needs identity rather than
// reached for as a global.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/accountctl/internal/domain"
)

// Session is a read-only snapshot of the authentication state.
type Session struct {
	Identity *domain.Identity
}

// Present reports whether a user is authenticated.
func (s Session) Present() bool { return s.Identity != nil }

// Manager is the single source of truth for the current session. All reads
// and transitions go through it; no other component mutates the session.
type Manager struct {
	mu       sync.RWMutex
	identity *domain.Identity
}

// NewManager returns a Manager with no session (absent until a successful
// authenticate).
func NewManager() *Manager {
	return &Manager{}
}

// Current returns a snapshot of the session. Reads during an in-flight
// mutation observe the pre-mutation identity.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return Session{}
	}
	snapshot := *m.identity
	return Session{Identity: &snapshot}
}

// Establish transitions the session to the given identity, overwriting any
// existing one. Single-session model: there is no concurrent multi-account
// state to merge with.
func (m *Manager) Establish(identity *domain.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *identity
	m.identity = &snapshot
	slog.Info("session established", "user_id", snapshot.ID)
}

// Clear transitions the session to absent. Idempotent.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity != nil {
		slog.Info("session cleared", "user_id", m.identity.ID)
	}
	m.identity = nil
}

// Logout clears the local session and fires the remote endSession call in a
// detached goroutine. Local state is the authority: the remote call is
// best-effort cleanup whose failure is logged and never blocks logout. The
// returned channel closes once the remote call has resolved; callers that
// don't care may discard it.
func (m *Manager) Logout(ctx context.Context, svc domain.AccountService) <-chan struct{} {
	m.Clear()

	// Detach from the caller's context so an already-gone view (or a
	// finished CLI command) doesn't cancel the cleanup mid-flight.
	ctx = context.WithoutCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.EndSession(ctx); err != nil {
			slog.Warn("remote logout failed, local session already cleared", "error", err)
		}
	}()
	return done
}
