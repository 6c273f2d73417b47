package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/httpx"
	"github.com/serenity-glow/storefront/internal/services"
)

const maxCheckoutBodySize = 16 * 1024

// CheckoutHandlers exposes the payment page operations: the read-only order
// summary, the payment method switch, and the order submission.
type CheckoutHandlers struct {
	carts    services.CartService
	checkout services.CheckoutService
}

// NewCheckoutHandlers constructs handlers over the cart and checkout services.
func NewCheckoutHandlers(carts services.CartService, checkout services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{
		carts:    carts,
		checkout: checkout,
	}
}

// Routes wires the /checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/summary", h.getSummary)
	r.Post("/method", h.switchMethod)
	r.Post("/submit", h.submit)
}

type summaryLineView struct {
	Name             string `json:"name"`
	Quantity         int    `json:"quantity"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
}

type orderSummaryView struct {
	Empty           bool              `json:"empty"`
	EmptyMessage    string            `json:"emptyMessage,omitempty"`
	Lines           []summaryLineView `json:"lines"`
	SubtotalDisplay string            `json:"subtotalDisplay,omitempty"`
	TaxDisplay      string            `json:"taxDisplay,omitempty"`
	TotalDisplay    string            `json:"totalDisplay,omitempty"`
}

type switchMethodRequest struct {
	Current string `json:"current"`
	Method  string `json:"method"`
}

type switchMethodResponse struct {
	Method  string                `json:"method"`
	Effects []services.FormEffect `json:"effects"`
}

type submitRequest struct {
	Method     string `json:"method"`
	CardHolder string `json:"cardHolder"`
	CardNumber string `json:"cardNumber"`
}

type confirmationView struct {
	OrderID         string `json:"orderId"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	RedirectTo      string `json:"redirectTo"`
	RedirectAfterMS int64  `json:"redirectAfterMs"`
}

func (h *CheckoutHandlers) getSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cart, err := h.carts.GetCart(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	writeJSONResponse(w, http.StatusOK, buildOrderSummaryView(cart))
}

func (h *CheckoutHandlers) switchMethod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req switchMethodRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "unknown payment method", http.StatusBadRequest))
		return
	}

	state := services.FormState{}
	if current, ok := domain.ParsePaymentMethod(req.Current); ok {
		state.Method = current
	}

	next, effects := h.checkout.Transition(state, method)
	if effects == nil {
		effects = []services.FormEffect{}
	}
	writeJSONResponse(w, http.StatusOK, switchMethodResponse{
		Method:  string(next.Method),
		Effects: effects,
	})
}

func (h *CheckoutHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "unknown payment method", http.StatusBadRequest))
		return
	}

	result, err := h.checkout.Submit(ctx, services.SubmitCommand{
		Method:     method,
		CardHolder: req.CardHolder,
		CardNumber: req.CardNumber,
	})
	if err != nil {
		h.writeCheckoutError(ctx, w, err)
		return
	}

	conf := result.Confirmation
	writeJSONResponse(w, http.StatusOK, confirmationView{
		OrderID:         conf.OrderID,
		Title:           conf.Title,
		Message:         conf.Message,
		RedirectTo:      conf.RedirectTo,
		RedirectAfterMS: conf.RedirectAfter.Milliseconds(),
	})
}

// buildOrderSummaryView renders the read-only payment page summary: per-line
// totals, no remove controls.
func buildOrderSummaryView(cart services.Cart) orderSummaryView {
	view := orderSummaryView{Lines: []summaryLineView{}}

	if cart.IsEmpty() {
		view.Empty = true
		view.EmptyMessage = "Your cart is empty."
		return view
	}

	for _, line := range cart.Lines {
		view.Lines = append(view.Lines, summaryLineView{
			Name:             sanitizeDisplayText(line.Name),
			Quantity:         line.Quantity,
			LineTotalDisplay: domain.FormatAmount(line.LineTotal()),
		})
	}

	summary := domain.Summarize(cart)
	view.SubtotalDisplay = domain.FormatAmount(summary.Subtotal)
	view.TaxDisplay = domain.FormatAmount(summary.Tax)
	view.TotalDisplay = domain.FormatAmount(summary.Total)
	return view
}

func (h *CheckoutHandlers) writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrCheckoutCardDetailsRequired):
		httpx.WriteError(ctx, w, httpx.NewError("card_details_required", "please fill out all required card details", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrCheckoutInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCheckoutUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("checkout_error", "failed to complete order", http.StatusInternalServerError))
	}
}
