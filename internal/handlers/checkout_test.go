package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/serenity-glow/storefront/internal/platform/localstore"
)

func TestGetSummaryEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rr := doRequest(t, env.router, http.MethodGet, "/checkout/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := decodeJSONMap(t, rr)
	if body["empty"] != true {
		t.Fatalf("expected empty summary, got %v", body)
	}
	if body["emptyMessage"] != "Your cart is empty." {
		t.Fatalf("unexpected message %v", body["emptyMessage"])
	}
}

func TestGetSummaryRendersLineTotals(t *testing.T) {
	env := newTestEnv(t)

	doRequest(t, env.router, http.MethodPost, "/cart/items", `{"name":"Facial","price":50}`)
	doRequest(t, env.router, http.MethodPost, "/cart/items", `{"name":"Facial","price":50}`)
	doRequest(t, env.router, http.MethodPost, "/cart/items", `{"name":"Massage","price":30}`)

	rr := doRequest(t, env.router, http.MethodGet, "/checkout/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := decodeJSONMap(t, rr)
	lines, ok := body["lines"].([]any)
	if !ok || len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", body["lines"])
	}
	first := lines[0].(map[string]any)
	if first["name"] != "Facial" || first["quantity"] != float64(2) || first["lineTotalDisplay"] != "$100.00" {
		t.Fatalf("unexpected first line %v", first)
	}
	if body["subtotalDisplay"] != "$130.00" {
		t.Fatalf("unexpected subtotal %v", body["subtotalDisplay"])
	}
	if body["taxDisplay"] != "$6.50" {
		t.Fatalf("unexpected tax %v", body["taxDisplay"])
	}
	if body["totalDisplay"] != "$136.50" {
		t.Fatalf("unexpected total %v", body["totalDisplay"])
	}
}

func TestSwitchMethodToCOD(t *testing.T) {
	env := newTestEnv(t)

	rr := doRequest(t, env.router, http.MethodPost, "/checkout/method", `{"current":"card","method":"cod"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := decodeJSONMap(t, rr)
	if body["method"] != "cod" {
		t.Fatalf("unexpected method %v", body["method"])
	}
	effects, ok := body["effects"].([]any)
	if !ok || len(effects) == 0 {
		t.Fatalf("expected effects, got %v", body["effects"])
	}

	var label string
	for _, raw := range effects {
		effect := raw.(map[string]any)
		if effect["kind"] == "set_submit_label" {
			label = effect["value"].(string)
		}
	}
	if label != "Place Order" {
		t.Fatalf("unexpected submit label %q", label)
	}
}

func TestSwitchMethodUnknown(t *testing.T) {
	env := newTestEnv(t)

	rr := doRequest(t, env.router, http.MethodPost, "/checkout/method", `{"method":"wire"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSubmitCardMissingDetails(t *testing.T) {
	env := newTestEnv(t)

	doRequest(t, env.router, http.MethodPost, "/cart/items", `{"name":"Facial","price":50}`)
	rr := doRequest(t, env.router, http.MethodPost, "/checkout/submit", `{"method":"card","cardHolder":"Ava"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	body := decodeJSONMap(t, rr)
	if body["error"] != "card_details_required" {
		t.Fatalf("unexpected code %v", body["error"])
	}

	if _, err := env.store.Get(context.Background(), localstore.KeyCart); err != nil {
		t.Fatalf("expected cart untouched, got %v", err)
	}
}

func TestSubmitCODClearsCartAndSchedulesRedirect(t *testing.T) {
	env := newTestEnv(t)

	doRequest(t, env.router, http.MethodPost, "/cart/items", `{"name":"Facial","price":50}`)
	pendingBefore := env.scheduler.Pending()
	rr := doRequest(t, env.router, http.MethodPost, "/checkout/submit", `{"method":"cod"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONMap(t, rr)
	if body["title"] != "Order Placed Successfully!" {
		t.Fatalf("unexpected title %v", body["title"])
	}
	if body["message"] != "Your order will be delivered soon. Please pay the courier upon arrival." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["orderId"] != "01HTESTORDER0000000000000" {
		t.Fatalf("unexpected order ID %v", body["orderId"])
	}
	if body["redirectAfterMs"] != float64(4000) {
		t.Fatalf("unexpected redirect delay %v", body["redirectAfterMs"])
	}
	if body["redirectTo"] != "/" {
		t.Fatalf("unexpected redirect target %v", body["redirectTo"])
	}

	if _, err := env.store.Get(context.Background(), localstore.KeyCart); !errors.Is(err, localstore.ErrKeyNotFound) {
		t.Fatalf("expected cart key removed, got %v", err)
	}
	if env.scheduler.Pending() != pendingBefore+1 {
		t.Fatalf("expected one newly scheduled redirect, got %d pending", env.scheduler.Pending())
	}
	env.scheduler.Advance(4 * time.Second)
	if env.scheduler.Pending() != 0 {
		t.Fatalf("expected all timers fired, got %d pending", env.scheduler.Pending())
	}
}

func TestSubmitCardSuccessMessage(t *testing.T) {
	env := newTestEnv(t)

	doRequest(t, env.router, http.MethodPost, "/cart/items", `{"name":"Massage","price":30}`)
	rr := doRequest(t, env.router, http.MethodPost, "/checkout/submit", `{"method":"card","cardHolder":"Ava Lee","cardNumber":"4111111111111111"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := decodeJSONMap(t, rr)
	if body["title"] != "Payment Successful!" {
		t.Fatalf("unexpected title %v", body["title"])
	}
	if body["message"] != "Thank you for your purchase. Your order is being processed." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}
