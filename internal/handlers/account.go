package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenity-glow/storefront/internal/platform/httpx"
	"github.com/serenity-glow/storefront/internal/services"
)

const maxAccountBodySize = 16 * 1024

// AccountHandlers exposes the account page operations: the form toggle view,
// sign-up, login, and logout.
type AccountHandlers struct {
	accounts services.AccountService
}

// NewAccountHandlers constructs handlers over the account service.
func NewAccountHandlers(accounts services.AccountService) *AccountHandlers {
	return &AccountHandlers{accounts: accounts}
}

// Routes wires the /account endpoints onto the provided router.
func (h *AccountHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/forms", h.getForms)
	r.Post("/signup", h.signUp)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type accountFormsView struct {
	LoginVisible  bool `json:"loginVisible"`
	SignupVisible bool `json:"signupVisible"`
}

type signUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type signUpResponse struct {
	Message string           `json:"message"`
	Forms   accountFormsView `json:"forms"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message    string `json:"message"`
	Username   string `json:"username"`
	RedirectTo string `json:"redirectTo"`
}

// getForms reports which of the two mutually exclusive account forms is
// visible. The login form shows by default; ?show=signup flips them.
func (h *AccountHandlers) getForms(w http.ResponseWriter, r *http.Request) {
	view := accountFormsView{LoginVisible: true}
	if r.URL.Query().Get("show") == "signup" {
		view = accountFormsView{SignupVisible: true}
	}
	writeJSONResponse(w, http.StatusOK, view)
}

func (h *AccountHandlers) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account_service_unavailable", "account service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxAccountBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req signUpRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	err = h.accounts.SignUp(ctx, services.SignUpCommand{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeAccountError(ctx, w, err)
		return
	}

	// Success switches the visible form back to login.
	writeJSONResponse(w, http.StatusCreated, signUpResponse{
		Message: "Account created successfully! Please log in.",
		Forms:   accountFormsView{LoginVisible: true},
	})
}

func (h *AccountHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account_service_unavailable", "account service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxAccountBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req loginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	session, err := h.accounts.Login(ctx, services.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeAccountError(ctx, w, err)
		return
	}

	username := sanitizeDisplayText(session.Username)
	writeJSONResponse(w, http.StatusOK, loginResponse{
		Message:    fmt.Sprintf("Welcome back, %s!", username),
		Username:   username,
		RedirectTo: "/",
	})
}

func (h *AccountHandlers) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account_service_unavailable", "account service is unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.accounts.Logout(ctx); err != nil {
		h.writeAccountError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"redirectTo": "/"})
}

func (h *AccountHandlers) writeAccountError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrAccountPasswordMismatch):
		httpx.WriteError(ctx, w, httpx.NewError("password_mismatch", "passwords do not match", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrAccountUsernameTaken):
		httpx.WriteError(ctx, w, httpx.NewError("username_taken", "username is already taken; please choose another one", http.StatusConflict))
	case errors.Is(err, services.ErrAccountInvalidCredentials):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_credentials", "invalid username or password", http.StatusUnauthorized))
	case errors.Is(err, services.ErrAccountInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrAccountUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("account_service_unavailable", "account service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("account_error", "failed to process account request", http.StatusInternalServerError))
	}
}
