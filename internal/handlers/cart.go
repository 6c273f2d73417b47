package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	domain "github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/platform/httpx"
	"github.com/serenity-glow/storefront/internal/services"
)

const maxCartBodySize = 16 * 1024

const emptyCartMessage = "Your cart is empty. Start shopping!"

// CartHandlers exposes the cart page operations: render, add, remove.
type CartHandlers struct {
	carts    services.CartService
	notifier services.Notifier
}

// NewCartHandlers constructs handlers over the cart service and toast notifier.
func NewCartHandlers(carts services.CartService, notifier services.Notifier) *CartHandlers {
	return &CartHandlers{
		carts:    carts,
		notifier: notifier,
	}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Delete("/items/{name}", h.removeItem)
}

type cartItemView struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	PriceDisplay string `json:"priceDisplay"`
	Quantity     int    `json:"quantity"`
	RemoveTarget string `json:"removeTarget"`
}

type cartSummaryView struct {
	SubtotalDisplay string `json:"subtotalDisplay"`
	TaxDisplay      string `json:"taxDisplay"`
	TotalDisplay    string `json:"totalDisplay"`
	CheckoutTarget  string `json:"checkoutTarget"`
}

type cartView struct {
	Empty        bool             `json:"empty"`
	EmptyMessage string           `json:"emptyMessage,omitempty"`
	Items        []cartItemView   `json:"items"`
	Summary      *cartSummaryView `json:"summary,omitempty"`
	Toast        *toastView       `json:"toast,omitempty"`
}

type toastView struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

type addItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cart, err := h.carts.GetCart(ctx)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, h.buildCartView(cart))
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req addItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	cart, err := h.carts.AddItem(ctx, services.AddItemCommand{
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, h.buildCartView(cart))
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product name is required", http.StatusBadRequest))
		return
	}

	cart, err := h.carts.RemoveItem(ctx, name)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, h.buildCartView(cart))
}

// buildCartView renders the full-replace cart page payload. An empty cart
// shows the empty-state message with the summary hidden.
func (h *CartHandlers) buildCartView(cart services.Cart) cartView {
	view := cartView{Items: []cartItemView{}}

	if toast := h.currentToast(); toast != nil {
		view.Toast = toast
	}

	if cart.IsEmpty() {
		view.Empty = true
		view.EmptyMessage = emptyCartMessage
		return view
	}

	for _, line := range cart.Lines {
		view.Items = append(view.Items, cartItemView{
			Name:         sanitizeDisplayText(line.Name),
			Image:        line.Image,
			PriceDisplay: domain.FormatAmount(line.Price),
			Quantity:     line.Quantity,
			RemoveTarget: "/cart/items/" + url.PathEscape(line.Name),
		})
	}

	summary := domain.Summarize(cart)
	view.Summary = &cartSummaryView{
		SubtotalDisplay: domain.FormatAmount(summary.Subtotal),
		TaxDisplay:      domain.FormatAmount(summary.Tax),
		TotalDisplay:    domain.FormatAmount(summary.Total),
		CheckoutTarget:  "/checkout",
	}
	return view
}

func (h *CartHandlers) currentToast() *toastView {
	if h.notifier == nil {
		return nil
	}
	toast := h.notifier.Current()
	if toast.Message == "" {
		return nil
	}
	return &toastView{
		Message: sanitizeDisplayText(toast.Message),
		Visible: toast.Visible,
	}
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCartUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("cart_error", "failed to process cart", http.StatusInternalServerError))
	}
}
