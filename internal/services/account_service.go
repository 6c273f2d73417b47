package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/serenity-glow/storefront/internal/domain"
	"github.com/serenity-glow/storefront/internal/repositories"
)

var (
	errAccountUsersRequired    = errors.New("account service: user repository is required")
	errAccountSessionsRequired = errors.New("account service: session repository is required")
)

// ErrAccountInvalidInput indicates the caller supplied invalid input.
var ErrAccountInvalidInput = errors.New("account service: invalid input")

// ErrAccountPasswordMismatch indicates the sign-up password and confirmation differ.
var ErrAccountPasswordMismatch = errors.New("account service: passwords do not match")

// ErrAccountUsernameTaken indicates the requested username already exists.
var ErrAccountUsernameTaken = errors.New("account service: username is already taken")

// ErrAccountInvalidCredentials indicates no stored account matches the login.
var ErrAccountInvalidCredentials = errors.New("account service: invalid username or password")

// ErrAccountUnavailable indicates the account service cannot fulfil the request due to backend issues.
var ErrAccountUnavailable = errors.New("account service: unavailable")

// AccountServiceDeps wires the user and session repositories for account operations.
type AccountServiceDeps struct {
	Users    repositories.UserRepository
	Sessions repositories.SessionRepository
	Logger   func(context.Context, string, map[string]any)
}

type accountService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	logger   func(context.Context, string, map[string]any)
}

// NewAccountService constructs an AccountService enforcing dependency validation.
func NewAccountService(deps AccountServiceDeps) (AccountService, error) {
	if deps.Users == nil {
		return nil, errAccountUsersRequired
	}
	if deps.Sessions == nil {
		return nil, errAccountSessionsRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &accountService{
		users:    deps.Users,
		sessions: deps.Sessions,
		logger:   logger,
	}, nil
}

// SignUp appends a new account after the mismatch and uniqueness checks. The
// stored user list is untouched when either check fails.
func (s *accountService) SignUp(ctx context.Context, cmd SignUpCommand) error {
	if s == nil || s.users == nil {
		return ErrAccountUnavailable
	}

	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrAccountInvalidInput)
	}
	if cmd.Password != cmd.ConfirmPassword {
		return ErrAccountPasswordMismatch
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return translateAccountRepoError(err)
	}

	for _, user := range users {
		if user.Username == username {
			return ErrAccountUsernameTaken
		}
	}

	users = append(users, domain.UserAccount{
		Username: username,
		Email:    cmd.Email,
		Password: cmd.Password,
	})
	if err := s.users.Save(ctx, users); err != nil {
		return translateAccountRepoError(err)
	}

	s.logger(ctx, "account.signed_up", map[string]any{
		"username": username,
		"users":    len(users),
	})
	return nil
}

// Login searches the stored accounts for an exact username and password match.
// A mismatch leaves the session flags untouched.
func (s *accountService) Login(ctx context.Context, cmd LoginCommand) (Session, error) {
	if s == nil || s.users == nil || s.sessions == nil {
		return Session{}, ErrAccountUnavailable
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return Session{}, translateAccountRepoError(err)
	}

	var found bool
	for _, user := range users {
		if user.Username == cmd.Username && user.Password == cmd.Password {
			found = true
			break
		}
	}
	if !found {
		return Session{}, ErrAccountInvalidCredentials
	}

	if err := s.sessions.SetLoggedIn(ctx, cmd.Username); err != nil {
		return Session{}, translateAccountRepoError(err)
	}

	s.logger(ctx, "account.logged_in", map[string]any{
		"username": cmd.Username,
	})
	return Session{LoggedIn: true, Username: cmd.Username}, nil
}

// Logout removes both session keys. Logging out while already logged out is a
// no-op.
func (s *accountService) Logout(ctx context.Context) error {
	if s == nil || s.sessions == nil {
		return ErrAccountUnavailable
	}

	if err := s.sessions.Clear(ctx); err != nil {
		return translateAccountRepoError(err)
	}

	s.logger(ctx, "account.logged_out", nil)
	return nil
}

// Session reads the persisted login flags without any integrity check against
// the stored user list.
func (s *accountService) Session(ctx context.Context) (Session, error) {
	if s == nil || s.sessions == nil {
		return Session{}, ErrAccountUnavailable
	}

	session, err := s.sessions.Current(ctx)
	if err != nil {
		return Session{}, translateAccountRepoError(err)
	}
	return session, nil
}

func translateAccountRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return fmt.Errorf("%w: %s", ErrAccountUnavailable, repoErr.Error())
	}
	return ErrAccountUnavailable
}
