// Package confirm wraps destructive or overwriting account mutations in a
// mandatory confirm-then-commit protocol. Both "save profile" and "delete
// account" run through the same controller, parameterized by intent kind,
// instead of two ad hoc dialog flows.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nfrund/accountctl/internal/domain"
	"github.com/nfrund/accountctl/internal/session"
)

// Kind names the mutation an intent will perform.
type Kind int

const (
	UpdateProfile Kind = iota
	DeleteAccount
)

func (k Kind) String() string {
	switch k {
	case UpdateProfile:
		return "update_profile"
	case DeleteAccount:
		return "delete_account"
	}
	return "unknown"
}

// Intent is created when the user requests an action and consumed when the
// action is confirmed, or discarded on cancel.
type Intent struct {
	Kind    Kind
	Profile domain.ProfileUpdate // payload for UpdateProfile; ignored for DeleteAccount
}

// State of the confirmation dialog.
type State int

const (
	Idle State = iota
	AwaitingConfirmation
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrNotConfirmable is returned when Confirm is called outside
// AwaitingConfirmation. A Confirm arriving while a call is in flight is the
// repeated-tap case: it performs no second network call.
var ErrNotConfirmable = errors.New("no confirmation pending")

// Controller is the state machine gating one mutation dialog. The remote
// call is issued exactly once per confirmed intent; the result is applied to
// the session even if whatever surfaced the dialog is long gone.
type Controller struct {
	mu       sync.Mutex
	state    State
	intent   Intent
	lastErr  error
	svc      domain.AccountService
	sessions *session.Manager
}

// NewController creates an Idle controller over the given service and
// session manager.
func NewController(svc domain.AccountService, sessions *session.Manager) *Controller {
	return &Controller{svc: svc, sessions: sessions}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the classified error of the last failed mutation, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// RequestAction stores the intent and moves Idle → AwaitingConfirmation.
// Requests arriving in any other state are dropped, guaranteeing at most one
// pending intent at a time.
func (c *Controller) RequestAction(intent Intent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		slog.Warn("action request dropped, confirmation already in progress",
			"kind", intent.Kind.String(), "state", c.state.String())
		return false
	}
	c.intent = intent
	c.state = AwaitingConfirmation
	return true
}

// Cancel discards the pending intent without any network call and returns
// the controller to Idle. Canceling in any other state is a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AwaitingConfirmation {
		return
	}
	c.intent = Intent{}
	c.state = Idle
}

// Confirm commits the pending intent: AwaitingConfirmation → InFlight, one
// remote call, then Succeeded or Failed. Calling Confirm again while the
// call is in flight returns ErrNotConfirmable without issuing a second
// request. On DeleteAccount success the session is cleared; on UpdateProfile
// success the cached identity is replaced. On failure the session is
// untouched and the classified error is retained until acknowledged.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.state != AwaitingConfirmation {
		state := c.state
		c.mu.Unlock()
		slog.Warn("confirm rejected", "state", state.String())
		return ErrNotConfirmable
	}
	intent := c.intent
	c.state = InFlight
	c.mu.Unlock()

	err := c.commit(ctx, intent)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.intent = Intent{}
	if err != nil {
		c.state = Failed
		c.lastErr = err
		return err
	}
	c.state = Succeeded
	c.lastErr = nil
	return nil
}

// Acknowledge clears a terminal state (Succeeded or Failed) back to Idle.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Succeeded && c.state != Failed {
		return
	}
	c.state = Idle
	c.lastErr = nil
}

// commit performs the remote call for the intent and applies the result to
// the session. It runs outside the controller lock so session reads stay
// responsive while the request is in flight.
func (c *Controller) commit(ctx context.Context, intent Intent) error {
	current := c.sessions.Current()
	if !current.Present() {
		return &domain.AuthError{Message: "no active session"}
	}
	id := current.Identity.ID

	switch intent.Kind {
	case UpdateProfile:
		updated, err := c.svc.UpdateProfile(ctx, id, intent.Profile)
		if err != nil {
			return err
		}
		c.sessions.Establish(updated)
		return nil

	case DeleteAccount:
		if err := c.svc.DeleteAccount(ctx, id); err != nil {
			return err
		}
		c.sessions.Clear()
		return nil
	}

	return &domain.GlobalError{Message: "unknown mutation kind"}
}
