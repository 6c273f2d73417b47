package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/localstore"
)

// UserRepository persists accounts under the `users` key as a JSON array.
type UserRepository struct {
	store localstore.Store
}

// NewUserRepository constructs a localstore-backed user repository.
func NewUserRepository(store localstore.Store) (*UserRepository, error) {
	if store == nil {
		return nil, errors.New("user repository requires a localstore")
	}
	return &UserRepository{store: store}, nil
}

// List deserializes the full account collection. An absent key or malformed
// payload yields an empty slice with no error.
func (r *UserRepository) List(ctx context.Context) ([]domain.UserAccount, error) {
	raw, err := r.store.Get(ctx, localstore.KeyUsers)
	if err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return []domain.UserAccount{}, nil
		}
		return nil, unavailableError(err)
	}

	var users []domain.UserAccount
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return []domain.UserAccount{}, nil
	}
	if users == nil {
		users = []domain.UserAccount{}
	}
	return users, nil
}

// Save overwrites the persisted account collection.
func (r *UserRepository) Save(ctx context.Context, users []domain.UserAccount) error {
	if users == nil {
		users = []domain.UserAccount{}
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return unavailableError(err)
	}
	if err := r.store.Set(ctx, localstore.KeyUsers, string(payload)); err != nil {
		return unavailableError(err)
	}
	return nil
}
