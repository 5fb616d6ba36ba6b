package accountd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/accountctl/internal/domain"
)

func TestUserStore_Create(t *testing.T) {
	store := NewUserStore()

	alice, err := store.Create("alice", "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)

	t.Run("usernames are unique, case-insensitively", func(t *testing.T) {
		_, err := store.Create("ALICE", "other@example.com", "hunter2")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("emails are unique", func(t *testing.T) {
		_, err := store.Create("bob", "alice@example.com", "hunter2")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUserStore_Authenticate(t *testing.T) {
	store := NewUserStore()
	created, err := store.Create("alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		identity, err := store.Authenticate("alice", "", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, created.ID, identity.ID)
	})

	t.Run("by email", func(t *testing.T) {
		identity, err := store.Authenticate("", "alice@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, created.ID, identity.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.Authenticate("alice", "", "wrong")
		assert.ErrorIs(t, err, ErrBadPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.Authenticate("nobody", "", "hunter2")
		assert.ErrorIs(t, err, ErrUnknownUser)
	})
}

func TestUserStore_Update(t *testing.T) {
	store := NewUserStore()
	alice, err := store.Create("alice", "alice@example.com", "hunter2")
	require.NoError(t, err)
	_, err = store.Create("bob", "bob@example.com", "hunter2")
	require.NoError(t, err)

	t.Run("empty fields are left unchanged", func(t *testing.T) {
		identity, err := store.Update(alice.ID, domain.ProfileUpdate{DisplayName: "alicia"})
		require.NoError(t, err)
		assert.Equal(t, "alicia", identity.DisplayName)
		assert.Equal(t, "alice@example.com", identity.Email)
	})

	t.Run("renaming onto another account's username conflicts", func(t *testing.T) {
		_, err := store.Update(alice.ID, domain.ProfileUpdate{DisplayName: "bob"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("keeping your own name is not a conflict", func(t *testing.T) {
		_, err := store.Update(alice.ID, domain.ProfileUpdate{DisplayName: "alicia"})
		assert.NoError(t, err)
	})

	t.Run("a rejected update leaves the account untouched", func(t *testing.T) {
		before, err := store.Get(alice.ID)
		require.NoError(t, err)

		// Name is free but the email collides; neither field may stick.
		_, err = store.Update(alice.ID, domain.ProfileUpdate{
			DisplayName: "alice-renamed",
			Email:       "bob@example.com",
		})
		require.ErrorIs(t, err, ErrEmailTaken)

		after, err := store.Get(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		// The pre-update name still authenticates with the old password.
		_, err = store.Authenticate(before.DisplayName, "", "hunter2")
		assert.NoError(t, err)
	})

	t.Run("a new password takes effect immediately", func(t *testing.T) {
		_, err := store.Update(alice.ID, domain.ProfileUpdate{Secret: "new-password"})
		require.NoError(t, err)

		_, err = store.Authenticate("alicia", "", "hunter2")
		assert.ErrorIs(t, err, ErrBadPassword)
		_, err = store.Authenticate("alicia", "", "new-password")
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Update("missing", domain.ProfileUpdate{})
		assert.ErrorIs(t, err, ErrUnknownUser)
	})
}

func TestUserStore_Delete(t *testing.T) {
	store := NewUserStore()
	alice, err := store.Create("alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	require.NoError(t, store.Delete(alice.ID))
	assert.ErrorIs(t, store.Delete(alice.ID), ErrUnknownUser)

	_, err = store.Get(alice.ID)
	assert.ErrorIs(t, err, ErrUnknownUser)
}
