package localstore

import (
	"context"
	"errors"

	"github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/localstore"
)

// SessionRepository persists the login flags as two scalar keys:
// `isLoggedIn` holds the literal "true" when a session exists, and
// `loggedInUser` the username. Neither is verified against the account set.
type SessionRepository struct {
	store localstore.Store
}

// NewSessionRepository constructs a localstore-backed session repository.
func NewSessionRepository(store localstore.Store) (*SessionRepository, error) {
	if store == nil {
		return nil, errors.New("session repository requires a localstore")
	}
	return &SessionRepository{store: store}, nil
}

// Current reads both flags. Any absent key reads as logged out.
func (r *SessionRepository) Current(ctx context.Context) (domain.Session, error) {
	flag, err := r.store.Get(ctx, localstore.KeyIsLoggedIn)
	if err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return domain.Session{}, nil
		}
		return domain.Session{}, unavailableError(err)
	}
	if flag != "true" {
		return domain.Session{}, nil
	}

	username, err := r.store.Get(ctx, localstore.KeyLoggedInUser)
	if err != nil && !errors.Is(err, localstore.ErrKeyNotFound) {
		return domain.Session{}, unavailableError(err)
	}
	return domain.Session{LoggedIn: true, Username: username}, nil
}

// SetLoggedIn writes both flags for the given username.
func (r *SessionRepository) SetLoggedIn(ctx context.Context, username string) error {
	if err := r.store.Set(ctx, localstore.KeyIsLoggedIn, "true"); err != nil {
		return unavailableError(err)
	}
	if err := r.store.Set(ctx, localstore.KeyLoggedInUser, username); err != nil {
		return unavailableError(err)
	}
	return nil
}

// Clear removes both flags. Clearing an absent session is a no-op.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, localstore.KeyIsLoggedIn); err != nil {
		return unavailableError(err)
	}
	if err := r.store.Remove(ctx, localstore.KeyLoggedInUser); err != nil {
		return unavailableError(err)
	}
	return nil
}
