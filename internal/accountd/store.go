package accountd

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nfrund/accountctl/internal/domain"
)

// Store-level sentinel errors. Handlers translate these into the service's
// HTTP statuses and failure messages.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUnknownUser   = errors.New("unknown user")
	ErrBadPassword   = errors.New("password mismatch")
)

type account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
}

func (a *account) identity() *domain.Identity {
	return &domain.Identity{ID: a.ID, DisplayName: a.Name, Email: a.Email}
}

// UserStore is an in-memory account store. The development service must be
// spawnable by httptest with zero infrastructure, so accounts live for the
// process lifetime only.
type UserStore struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by id
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{accounts: make(map[string]*account)}
}

// Create registers a new account with a bcrypt-hashed password. Usernames
// and emails are unique across the store.
func (s *UserStore) Create(name, email, password string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, name) {
			return nil, ErrUsernameTaken
		}
		if strings.EqualFold(a.Email, email) {
			return nil, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	s.accounts[a.ID] = a
	return a.identity(), nil
}

// Authenticate verifies the password for the account matching the username
// or email. Exactly one of username/email is expected to be set.
func (s *UserStore) Authenticate(username, email, password string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *account
	for _, a := range s.accounts {
		if username != "" && strings.EqualFold(a.Name, username) {
			match = a
			break
		}
		if email != "" && strings.EqualFold(a.Email, email) {
			match = a
			break
		}
	}
	if match == nil {
		return nil, ErrUnknownUser
	}

	if err := bcrypt.CompareHashAndPassword(match.PasswordHash, []byte(password)); err != nil {
		return nil, ErrBadPassword
	}
	return match.identity(), nil
}

// Get returns the identity for an account id.
func (s *UserStore) Get(id string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrUnknownUser
	}
	return a.identity(), nil
}

// Update applies the non-empty fields of the update to the account. Each
// provided field carries its own uniqueness check; a provided password is
// re-hashed.
func (s *UserStore) Update(id string, update domain.ProfileUpdate) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrUnknownUser
	}

	// Check every field before touching the account; a rejected update must
	// leave no partial state behind.
	if update.DisplayName != "" {
		for _, other := range s.accounts {
			if other.ID != id && strings.EqualFold(other.Name, update.DisplayName) {
				return nil, ErrUsernameTaken
			}
		}
	}
	if update.Email != "" {
		for _, other := range s.accounts {
			if other.ID != id && strings.EqualFold(other.Email, update.Email) {
				return nil, ErrEmailTaken
			}
		}
	}

	var hash []byte
	if update.Secret != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(update.Secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}

	if update.DisplayName != "" {
		a.Name = update.DisplayName
	}
	if update.Email != "" {
		a.Email = update.Email
	}
	if hash != nil {
		a.PasswordHash = hash
	}

	return a.identity(), nil
}

// Delete removes the account. Irreversible.
func (s *UserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return ErrUnknownUser
	}
	delete(s.accounts, id)
	return nil
}
