package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/schedule"
	"github.com/serenity-glow/storefront/internal/repositories"
)

var (
	errCheckoutCartRequired      = errors.New("checkout service: cart repository is required")
	errCheckoutSchedulerRequired = errors.New("checkout service: scheduler is required")
	errCheckoutClockRequired     = errors.New("checkout service: clock is required")
)

// ErrCheckoutInvalidInput indicates the caller supplied invalid input.
var ErrCheckoutInvalidInput = errors.New("checkout service: invalid input")

// ErrCheckoutCardDetailsRequired indicates a card submission with missing holder name or number.
var ErrCheckoutCardDetailsRequired = errors.New("checkout service: card details are required")

// ErrCheckoutUnavailable indicates the checkout service cannot fulfil the request due to backend issues.
var ErrCheckoutUnavailable = errors.New("checkout service: unavailable")

const (
	defaultRedirectDelay = 4 * time.Second
	defaultHomePath      = "/"
)

const (
	codPopupTitle    = "Order Placed Successfully!"
	codPopupMessage  = "Your order will be delivered soon. Please pay the courier upon arrival."
	cardPopupTitle   = "Payment Successful!"
	cardPopupMessage = "Thank you for your purchase. Your order is being processed."
)

// FormState is the payment form's sole piece of state: the selected method.
type FormState struct {
	Method PaymentMethod
}

// FormEffectKind enumerates the DOM-level adjustments a method switch implies.
type FormEffectKind string

const (
	// EffectHideContent hides a payment method content section.
	EffectHideContent FormEffectKind = "hide_content"
	// EffectShowContent shows the selected method content section.
	EffectShowContent FormEffectKind = "show_content"
	// EffectSetRequired toggles the required flag on the card inputs.
	EffectSetRequired FormEffectKind = "set_required"
	// EffectSetSubmitLabel relabels the submit control.
	EffectSetSubmitLabel FormEffectKind = "set_submit_label"
)

// FormEffect is one declarative adjustment produced by a state transition.
// Target is the affected element reference, Value the new label or "true"/"false".
type FormEffect struct {
	Kind   FormEffectKind `json:"kind"`
	Target string         `json:"target,omitempty"`
	Value  string         `json:"value,omitempty"`
}

// CheckoutServiceDeps wires the cart repository, the redirect scheduler, and
// the order stamping dependencies.
type CheckoutServiceDeps struct {
	Cart          repositories.CartRepository
	Scheduler     schedule.Scheduler
	Clock         func() time.Time
	IDGenerator   func() string
	RedirectDelay time.Duration
	HomePath      string
	Logger        func(context.Context, string, map[string]any)
	OnRedirect    func()
}

type checkoutService struct {
	cart          repositories.CartRepository
	scheduler     schedule.Scheduler
	now           func() time.Time
	newID         func() string
	redirectDelay time.Duration
	homePath      string
	logger        func(context.Context, string, map[string]any)
	onRedirect    func()
}

// NewCheckoutService constructs a CheckoutService enforcing dependency validation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Cart == nil {
		return nil, errCheckoutCartRequired
	}
	if deps.Scheduler == nil {
		return nil, errCheckoutSchedulerRequired
	}
	if deps.Clock == nil {
		return nil, errCheckoutClockRequired
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	delay := deps.RedirectDelay
	if delay <= 0 {
		delay = defaultRedirectDelay
	}

	home := deps.HomePath
	if home == "" {
		home = defaultHomePath
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	onRedirect := deps.OnRedirect
	if onRedirect == nil {
		onRedirect = func() {}
	}

	return &checkoutService{
		cart:          deps.Cart,
		scheduler:     deps.Scheduler,
		now:           func() time.Time { return deps.Clock().UTC() },
		newID:         idGen,
		redirectDelay: delay,
		homePath:      home,
		logger:        logger,
		onRedirect:    onRedirect,
	}, nil
}

// Transition switches the payment form to the given method. It is pure: the
// new state and the full effect list are returned, nothing is persisted. An
// unknown method leaves the state unchanged with no effects.
func (s *checkoutService) Transition(state FormState, method PaymentMethod) (FormState, []FormEffect) {
	switch method {
	case domain.PaymentMethodCard, domain.PaymentMethodCOD:
	default:
		return state, nil
	}

	effects := []FormEffect{
		{Kind: EffectHideContent, Target: "card-payment-content"},
		{Kind: EffectHideContent, Target: "cod-payment-content"},
		{Kind: EffectShowContent, Target: fmt.Sprintf("%s-payment-content", method)},
	}

	if method == domain.PaymentMethodCOD {
		effects = append(effects,
			FormEffect{Kind: EffectSetRequired, Target: "card-payment-content", Value: "false"},
			FormEffect{Kind: EffectSetSubmitLabel, Target: "submit-payment-btn", Value: "Place Order"},
		)
	} else {
		effects = append(effects,
			FormEffect{Kind: EffectSetRequired, Target: "card-payment-content", Value: "true"},
			FormEffect{Kind: EffectSetSubmitLabel, Target: "submit-payment-btn", Value: "Pay Now"},
		)
	}

	return FormState{Method: method}, effects
}

// Submit validates the form for the selected method and completes the order:
// the popup content is chosen per method, the cart key is removed, and the
// home redirect is scheduled. The returned task cancels the redirect.
func (s *checkoutService) Submit(ctx context.Context, cmd SubmitCommand) (CheckoutResult, error) {
	if s == nil || s.cart == nil {
		return CheckoutResult{}, ErrCheckoutUnavailable
	}

	switch cmd.Method {
	case domain.PaymentMethodCard:
		if cmd.CardHolder == "" || cmd.CardNumber == "" {
			return CheckoutResult{}, fmt.Errorf("%w: please fill out all required card details", ErrCheckoutCardDetailsRequired)
		}
	case domain.PaymentMethodCOD:
	default:
		return CheckoutResult{}, fmt.Errorf("%w: unknown payment method %q", ErrCheckoutInvalidInput, string(cmd.Method))
	}

	confirmation := domain.OrderConfirmation{
		OrderID:       s.newID(),
		Method:        cmd.Method,
		PlacedAt:      s.now(),
		RedirectAfter: s.redirectDelay,
		RedirectTo:    s.homePath,
	}
	if cmd.Method == domain.PaymentMethodCOD {
		confirmation.Title = codPopupTitle
		confirmation.Message = codPopupMessage
	} else {
		confirmation.Title = cardPopupTitle
		confirmation.Message = cardPopupMessage
	}

	if err := s.cart.Clear(ctx); err != nil {
		return CheckoutResult{}, translateCheckoutRepoError(err)
	}

	task := s.scheduler.AfterFunc(s.redirectDelay, s.onRedirect)

	s.logger(ctx, "checkout.order_placed", map[string]any{
		"orderID": confirmation.OrderID,
		"method":  string(cmd.Method),
	})

	return CheckoutResult{Confirmation: confirmation, Redirect: task}, nil
}

func translateCheckoutRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return fmt.Errorf("%w: %s", ErrCheckoutUnavailable, repoErr.Error())
	}
	return ErrCheckoutUnavailable
}
