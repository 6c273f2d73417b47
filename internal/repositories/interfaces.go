package repositories

import (
	"context"

	"github.com/serenity-glow/storefront/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CartRepository owns the persisted cart collection. Every write is a full
// overwrite of the serialized cart; absent or malformed payloads load as an
// empty cart, indistinguishable from first use.
type CartRepository interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Clear(ctx context.Context) error
}

// UserRepository owns the persisted account collection, keyed by username.
type UserRepository interface {
	List(ctx context.Context) ([]domain.UserAccount, error)
	Save(ctx context.Context, users []domain.UserAccount) error
}

// SessionRepository owns the two scalar login flags.
type SessionRepository interface {
	Current(ctx context.Context) (domain.Session, error)
	SetLoggedIn(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}
