package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/localstore"
)

// CartRepository persists the cart under the `cart` key as a JSON array of
// lines.
type CartRepository struct {
	store localstore.Store
}

// NewCartRepository constructs a localstore-backed cart repository.
func NewCartRepository(store localstore.Store) (*CartRepository, error) {
	if store == nil {
		return nil, errors.New("cart repository requires a localstore")
	}
	return &CartRepository{store: store}, nil
}

// Load deserializes the full cart. An absent key or malformed payload yields
// an empty cart with no error.
func (r *CartRepository) Load(ctx context.Context) (domain.Cart, error) {
	raw, err := r.store.Get(ctx, localstore.KeyCart)
	if err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return domain.Cart{Lines: []domain.CartLine{}}, nil
		}
		return domain.Cart{}, unavailableError(err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// Malformed persisted data reads as empty, same as first use.
		return domain.Cart{Lines: []domain.CartLine{}}, nil
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return domain.Cart{Lines: lines}, nil
}

// Save overwrites the persisted cart with the given lines.
func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return unavailableError(err)
	}
	if err := r.store.Set(ctx, localstore.KeyCart, string(payload)); err != nil {
		return unavailableError(err)
	}
	return nil
}

// Clear removes the cart key entirely.
func (r *CartRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, localstore.KeyCart); err != nil {
		return unavailableError(err)
	}
	return nil
}
