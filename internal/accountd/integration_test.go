package accountd_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/accountctl/internal/client"
	"github.com/nfrund/accountctl/internal/confirm"
	"github.com/nfrund/accountctl/internal/domain"
	"github.com/nfrund/accountctl/internal/session"
	"github.com/nfrund/accountctl/internal/testutils"
)

func TestAccountFlow_Integration(t *testing.T) {
	baseURL := testutils.StartService(t)

	// One client for the whole flow; its cookie jar carries the session
	// across steps, like a real application instance.
	c, err := client.New(baseURL)
	require.NoError(t, err)

	sessions := session.NewManager()
	ctx := context.Background()

	username := fmt.Sprintf("flow-user-%d", time.Now().UnixNano())
	email := username + "@example.com"
	password := "a-secure-password-123"

	t.Run("register a new account", func(t *testing.T) {
		require.NoError(t, c.Register(ctx, username, email, password))
	})

	t.Run("duplicate username is a conflict on the identifier", func(t *testing.T) {
		err := c.Register(ctx, username, "other@example.com", password)

		var confErr *domain.ConflictError
		require.ErrorAs(t, err, &confErr)
		findings := domain.FieldErrorsFrom(err)
		require.Len(t, findings, 1)
		assert.Equal(t, domain.FieldIdentifier, findings[0].Field)
	})

	t.Run("duplicate email is a conflict on the email field", func(t *testing.T) {
		err := c.Register(ctx, "someone-else", email, password)

		findings := domain.FieldErrorsFrom(err)
		require.Len(t, findings, 1)
		assert.Equal(t, domain.FieldEmail, findings[0].Field)
	})

	t.Run("login with a wrong password lands on the secret field", func(t *testing.T) {
		_, err := c.Authenticate(ctx, username, "wrong")

		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
		findings := domain.FieldErrorsFrom(err)
		require.Len(t, findings, 1)
		assert.Equal(t, domain.FieldSecret, findings[0].Field)
	})

	t.Run("login with an unknown identifier lands on the identifier field", func(t *testing.T) {
		_, err := c.Authenticate(ctx, "nobody-here", "whatever")

		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})

	var identity *domain.Identity

	t.Run("login by username establishes the session", func(t *testing.T) {
		var err error
		identity, err = c.Authenticate(ctx, username, password)
		require.NoError(t, err)
		assert.Equal(t, username, identity.DisplayName)

		sessions.Establish(identity)
		require.True(t, sessions.Current().Present())
	})

	t.Run("current profile matches the authenticated identity", func(t *testing.T) {
		profile, err := c.CurrentProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, identity.ID, profile.ID)
		assert.Equal(t, email, profile.Email)
	})

	t.Run("confirmed profile update rewrites the session identity", func(t *testing.T) {
		ctrl := confirm.NewController(c, sessions)
		require.True(t, ctrl.RequestAction(confirm.Intent{
			Kind:    confirm.UpdateProfile,
			Profile: domain.ProfileUpdate{DisplayName: username + "-renamed"},
		}))

		require.NoError(t, ctrl.Confirm(ctx))
		ctrl.Acknowledge()

		current := sessions.Current()
		require.True(t, current.Present())
		assert.Equal(t, username+"-renamed", current.Identity.DisplayName)
		// Email was not part of the update and must be unchanged.
		assert.Equal(t, email, current.Identity.Email)
	})

	t.Run("cancelled deletion leaves the account intact", func(t *testing.T) {
		ctrl := confirm.NewController(c, sessions)
		require.True(t, ctrl.RequestAction(confirm.Intent{Kind: confirm.DeleteAccount}))
		ctrl.Cancel()

		_, err := c.CurrentProfile(ctx)
		require.NoError(t, err)
		assert.True(t, sessions.Current().Present())
	})

	t.Run("confirmed deletion clears the session", func(t *testing.T) {
		ctrl := confirm.NewController(c, sessions)
		require.True(t, ctrl.RequestAction(confirm.Intent{Kind: confirm.DeleteAccount}))
		require.NoError(t, ctrl.Confirm(ctx))

		assert.False(t, sessions.Current().Present())
	})

	t.Run("the deleted account cannot log back in", func(t *testing.T) {
		_, err := c.Authenticate(ctx, username+"-renamed", password)

		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})
}

func TestSessionEnforcement_Integration(t *testing.T) {
	baseURL := testutils.StartService(t)
	ctx := context.Background()

	alice, err := client.New(baseURL)
	require.NoError(t, err)
	mallory, err := client.New(baseURL)
	require.NoError(t, err)

	require.NoError(t, alice.Register(ctx, "alice", "alice@example.com", "password-a"))
	require.NoError(t, mallory.Register(ctx, "mallory", "mallory@example.com", "password-m"))

	aliceID, err := alice.Authenticate(ctx, "alice@example.com", "password-a")
	require.NoError(t, err)
	_, err = mallory.Authenticate(ctx, "mallory", "password-m")
	require.NoError(t, err)

	t.Run("profile reads require a session", func(t *testing.T) {
		anon, err := client.New(baseURL)
		require.NoError(t, err)

		_, err = anon.CurrentProfile(ctx)
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("mutating someone else's account is forbidden", func(t *testing.T) {
		_, err := mallory.UpdateProfile(ctx, aliceID.ID, domain.ProfileUpdate{DisplayName: "pwned"})
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)

		err = mallory.DeleteAccount(ctx, aliceID.ID)
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("logout invalidates the server-side session", func(t *testing.T) {
		sessions := session.NewManager()
		sessions.Establish(aliceID)

		done := sessions.Logout(ctx, alice)
		assert.False(t, sessions.Current().Present())
		<-done

		_, err := alice.CurrentProfile(ctx)
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
	})
}
