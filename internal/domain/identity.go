package domain

import (
	"context"
	"strings"
)

// Identity is the authenticated user's profile as known to this client.
// It is immutable once fetched; updates go through AccountService.UpdateProfile.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email,omitempty"`
}

// Credentials exist only for the duration of a single authenticate or
// register call. They are never persisted.
type Credentials struct {
	Identifier string
	Secret     string
}

// IsEmail reports whether the identifier should be sent as an email address.
// Presence of "@" is the disambiguation rule the account service expects.
func (c Credentials) IsEmail() bool {
	return strings.Contains(c.Identifier, "@")
}

// ProfileUpdate carries the replacement profile fields for an update.
// Empty fields are left unchanged by the service (partial update semantics).
type ProfileUpdate struct {
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Secret      string `json:"password"`
}

// AccountService defines the contract for the remote account service.
// It lives in the domain because it's a requirement OF the domain, not
// of the HTTP implementation. The session credential (cookie) is carried
// ambiently by the implementation; no operation other than Authenticate
// and Register accepts a raw secret.
type AccountService interface {
	Authenticate(ctx context.Context, identifier, secret string) (*Identity, error)
	Register(ctx context.Context, displayName, email, secret string) error
	CurrentProfile(ctx context.Context) (*Identity, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Identity, error)
	DeleteAccount(ctx context.Context, id string) error
	EndSession(ctx context.Context) error
}
