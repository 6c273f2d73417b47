package services

import (
	"context"

	domain "github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/schedule"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Cart              = domain.Cart
	CartLine          = domain.CartLine
	CartSummary       = domain.CartSummary
	UserAccount       = domain.UserAccount
	Session           = domain.Session
	PaymentMethod     = domain.PaymentMethod
	OrderConfirmation = domain.OrderConfirmation
)

// CartService manages the persisted cart: lookups, quantity merges, removals,
// and the totals used by the cart and order summary views.
type CartService interface {
	AddItem(ctx context.Context, cmd AddItemCommand) (Cart, error)
	RemoveItem(ctx context.Context, name string) (Cart, error)
	GetCart(ctx context.Context) (Cart, error)
	Summarize(cart Cart) CartSummary
	Clear(ctx context.Context) error
}

// AddItemCommand carries the product being added to the cart.
type AddItemCommand struct {
	Name  string
	Price float64
	Image string
}

// AccountService handles sign-up, login, logout, and session reads over the
// persisted user list and session flags.
type AccountService interface {
	SignUp(ctx context.Context, cmd SignUpCommand) error
	Login(ctx context.Context, cmd LoginCommand) (Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (Session, error)
}

// SignUpCommand carries the sign-up form fields.
type SignUpCommand struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginCommand carries the login form fields.
type LoginCommand struct {
	Username string
	Password string
}

// CheckoutService drives the payment form state machine and completes orders.
type CheckoutService interface {
	Transition(state FormState, method PaymentMethod) (FormState, []FormEffect)
	Submit(ctx context.Context, cmd SubmitCommand) (CheckoutResult, error)
}

// SubmitCommand carries the payment form submission.
type SubmitCommand struct {
	Method     PaymentMethod
	CardHolder string
	CardNumber string
}

// CheckoutResult is a completed order plus the cancellable redirect task so
// callers driving a manual scheduler can assert on the deferred navigation.
type CheckoutResult struct {
	Confirmation OrderConfirmation
	Redirect     schedule.Task
}

// Notifier shows transient toast messages and hides them after a fixed delay.
type Notifier interface {
	Notify(ctx context.Context, message string)
	Current() Toast
}

// Toast is the current state of the singleton toast element.
type Toast struct {
	Message string
	Visible bool
}
