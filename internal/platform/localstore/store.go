// Package localstore provides the origin-scoped key-value store backing all
// persisted storefront state. Values are opaque strings (JSON text); every
// write is a single atomic overwrite of one key, last write wins.
package localstore

import (
	"context"
	"errors"
)

// Persisted keys shared by the repositories.
const (
	KeyCart         = "cart"
	KeyUsers        = "users"
	KeyIsLoggedIn   = "isLoggedIn"
	KeyLoggedInUser = "loggedInUser"
)

// ErrKeyNotFound indicates the requested key has never been written or has
// been removed. Callers treat this the same as a genuine empty state.
var ErrKeyNotFound = errors.New("localstore: key not found")

// Store is the synchronous key-value contract. Implementations must make
// each operation atomic with respect to the others.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
