package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/repositories"
)

var errCartRepositoryRequired = errors.New("cart service: repository is required")

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartUnavailable indicates the cart service cannot fulfil the request due to backend issues.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// CartServiceDeps wires the repository and notification dependencies for cart operations.
type CartServiceDeps struct {
	Repository repositories.CartRepository
	Notifier   Notifier
	Logger     func(context.Context, string, map[string]any)
}

type cartService struct {
	repo     repositories.CartRepository
	notifier Notifier
	logger   func(context.Context, string, map[string]any)
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Repository == nil {
		return nil, errCartRepositoryRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &cartService{
		repo:     deps.Repository,
		notifier: deps.Notifier,
		logger:   logger,
	}, nil
}

// AddItem merges the product into the cart. A line with the same name has its
// quantity incremented by one and keeps its stored price and image; otherwise
// a new line with quantity one is appended.
func (s *cartService) AddItem(ctx context.Context, cmd AddItemCommand) (Cart, error) {
	if s == nil || s.repo == nil {
		return Cart{}, ErrCartUnavailable
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return Cart{}, fmt.Errorf("%w: product name is required", ErrCartInvalidInput)
	}
	if cmd.Price < 0 {
		return Cart{}, fmt.Errorf("%w: price must not be negative", ErrCartInvalidInput)
	}

	cart, err := s.repo.Load(ctx)
	if err != nil {
		return Cart{}, translateCartRepoError(err)
	}

	if idx := cart.FindLine(name); idx >= 0 {
		cart.Lines[idx].Quantity++
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{
			Name:     name,
			Price:    cmd.Price,
			Image:    cmd.Image,
			Quantity: 1,
		})
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return Cart{}, translateCartRepoError(err)
	}

	s.logger(ctx, "cart.item_added", map[string]any{
		"name":  name,
		"lines": len(cart.Lines),
	})

	if s.notifier != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("%s added to cart!", name))
	}

	return cart, nil
}

// RemoveItem drops every line matching the name. Unknown names are a no-op;
// the resulting cart is returned for immediate re-render.
func (s *cartService) RemoveItem(ctx context.Context, name string) (Cart, error) {
	if s == nil || s.repo == nil {
		return Cart{}, ErrCartUnavailable
	}

	cart, err := s.repo.Load(ctx)
	if err != nil {
		return Cart{}, translateCartRepoError(err)
	}

	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.Name != name {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept

	if err := s.repo.Save(ctx, cart); err != nil {
		return Cart{}, translateCartRepoError(err)
	}

	s.logger(ctx, "cart.item_removed", map[string]any{
		"name":  name,
		"lines": len(cart.Lines),
	})

	return cart, nil
}

// GetCart loads the persisted cart; an absent or unreadable payload is an
// empty cart.
func (s *cartService) GetCart(ctx context.Context) (Cart, error) {
	if s == nil || s.repo == nil {
		return Cart{}, ErrCartUnavailable
	}

	cart, err := s.repo.Load(ctx)
	if err != nil {
		return Cart{}, translateCartRepoError(err)
	}
	return cart, nil
}

// Summarize computes subtotal, tax, and total for the cart.
func (s *cartService) Summarize(cart Cart) CartSummary {
	return domain.Summarize(cart)
}

// Clear removes the persisted cart entirely.
func (s *cartService) Clear(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrCartUnavailable
	}

	if err := s.repo.Clear(ctx); err != nil {
		return translateCartRepoError(err)
	}

	s.logger(ctx, "cart.cleared", nil)
	return nil
}

// Absent and malformed payloads already load as empty carts, so any surviving
// repository error means the backing store itself failed.
func translateCartRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return fmt.Errorf("%w: %s", ErrCartUnavailable, repoErr.Error())
	}
	return ErrCartUnavailable
}
