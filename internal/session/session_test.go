package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/accountctl/internal/domain"
)

// stubService implements domain.AccountService for session tests. Only
// EndSession does anything; the rest should never be called.
type stubService struct {
	endSessionErr  error
	endSessionHang chan struct{} // blocks EndSession until closed, if set
	endSessionDone chan struct{} // closed when EndSession has been called
}

func (s *stubService) Authenticate(context.Context, string, string) (*domain.Identity, error) {
	panic("unexpected call")
}
func (s *stubService) Register(context.Context, string, string, string) error {
	panic("unexpected call")
}
func (s *stubService) CurrentProfile(context.Context) (*domain.Identity, error) {
	panic("unexpected call")
}
func (s *stubService) UpdateProfile(context.Context, string, domain.ProfileUpdate) (*domain.Identity, error) {
	panic("unexpected call")
}
func (s *stubService) DeleteAccount(context.Context, string) error {
	panic("unexpected call")
}

func (s *stubService) EndSession(context.Context) error {
	if s.endSessionDone != nil {
		close(s.endSessionDone)
	}
	if s.endSessionHang != nil {
		<-s.endSessionHang
	}
	return s.endSessionErr
}

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager()

	t.Run("starts absent", func(t *testing.T) {
		assert.False(t, m.Current().Present())
	})

	t.Run("establish makes the identity current", func(t *testing.T) {
		m.Establish(&domain.Identity{ID: "u1", DisplayName: "alice"})

		current := m.Current()
		require.True(t, current.Present())
		assert.Equal(t, "alice", current.Identity.DisplayName)
	})

	t.Run("establish overwrites an existing identity", func(t *testing.T) {
		m.Establish(&domain.Identity{ID: "u2", DisplayName: "bob"})

		assert.Equal(t, "u2", m.Current().Identity.ID)
	})

	t.Run("snapshots are isolated from later transitions", func(t *testing.T) {
		snapshot := m.Current()
		m.Establish(&domain.Identity{ID: "u3", DisplayName: "carol"})

		assert.Equal(t, "u2", snapshot.Identity.ID)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		m.Clear()
		assert.False(t, m.Current().Present())
		m.Clear()
		assert.False(t, m.Current().Present())
	})
}

func TestManager_Logout(t *testing.T) {
	t.Run("clears locally even when the remote call fails", func(t *testing.T) {
		m := NewManager()
		m.Establish(&domain.Identity{ID: "u1"})

		svc := &stubService{endSessionErr: errors.New("boom")}
		done := m.Logout(context.Background(), svc)

		assert.False(t, m.Current().Present())

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("remote logout never resolved")
		}
	})

	t.Run("clears locally while the remote call never resolves", func(t *testing.T) {
		m := NewManager()
		m.Establish(&domain.Identity{ID: "u1"})

		hang := make(chan struct{})
		called := make(chan struct{})
		svc := &stubService{endSessionHang: hang, endSessionDone: called}

		m.Logout(context.Background(), svc)

		// Local state is the authority; the pending remote call must not
		// block it.
		assert.False(t, m.Current().Present())

		select {
		case <-called:
		case <-time.After(time.Second):
			t.Fatal("remote logout was never issued")
		}
		close(hang)
	})
}
