package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenity-glow/storefront/internal/platform/httpx"
	"github.com/serenity-glow/storefront/internal/services"
)

// SessionHandlers exposes the navigation status read every page load uses to
// rewrite the login link.
type SessionHandlers struct {
	accounts services.AccountService
}

// NewSessionHandlers constructs handlers over the account service.
func NewSessionHandlers(accounts services.AccountService) *SessionHandlers {
	return &SessionHandlers{accounts: accounts}
}

// Routes wires the /session endpoints onto the provided router.
func (h *SessionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/nav", h.getNav)
}

type navStatusView struct {
	LoggedIn bool   `json:"loggedIn"`
	Label    string `json:"label"`
	Href     string `json:"href"`
	Action   string `json:"action,omitempty"`
}

func (h *SessionHandlers) getNav(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account_service_unavailable", "account service is unavailable", http.StatusServiceUnavailable))
		return
	}

	session, err := h.accounts.Session(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("account_service_unavailable", "account service is unavailable", http.StatusServiceUnavailable))
		return
	}

	view := navStatusView{Label: "Login", Href: "/account"}
	if session.LoggedIn {
		view = navStatusView{
			LoggedIn: true,
			Label:    fmt.Sprintf("Logout (%s)", sanitizeDisplayText(session.Username)),
			Href:     "#",
			Action:   "logout",
		}
	}
	writeJSONResponse(w, http.StatusOK, view)
}
