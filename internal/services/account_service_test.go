package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/serenity-glow/storefront/internal/domain"
)

func TestNewAccountServiceRequiresRepositories(t *testing.T) {
	if _, err := NewAccountService(AccountServiceDeps{Sessions: &memorySessionRepo{}}); err == nil {
		t.Fatal("expected error for missing user repository")
	}
	if _, err := NewAccountService(AccountServiceDeps{Users: &memoryUserRepo{}}); err == nil {
		t.Fatal("expected error for missing session repository")
	}
}

func TestSignUpAppendsUser(t *testing.T) {
	users := &memoryUserRepo{}
	svc, err := NewAccountService(AccountServiceDeps{Users: users, Sessions: &memorySessionRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SignUp(context.Background(), SignUpCommand{
		Username:        "ava",
		Email:           "ava@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users.users))
	}
	if users.users[0].Username != "ava" || users.users[0].Password != "secret" {
		t.Fatalf("unexpected user %+v", users.users[0])
	}
}

func TestSignUpPasswordMismatchLeavesStoreUnchanged(t *testing.T) {
	users := &memoryUserRepo{}
	svc, err := NewAccountService(AccountServiceDeps{Users: users, Sessions: &memorySessionRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SignUp(context.Background(), SignUpCommand{
		Username:        "ava",
		Password:        "secret",
		ConfirmPassword: "other",
	})
	if !errors.Is(err, ErrAccountPasswordMismatch) {
		t.Fatalf("expected ErrAccountPasswordMismatch, got %v", err)
	}
	if users.saves != 0 {
		t.Fatalf("expected no save, got %d", users.saves)
	}
}

func TestSignUpDuplicateUsernameLeavesStoreUnchanged(t *testing.T) {
	users := &memoryUserRepo{users: []domain.UserAccount{{Username: "ava", Password: "first"}}}
	svc, err := NewAccountService(AccountServiceDeps{Users: users, Sessions: &memorySessionRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SignUp(context.Background(), SignUpCommand{
		Username:        "ava",
		Password:        "second",
		ConfirmPassword: "second",
	})
	if !errors.Is(err, ErrAccountUsernameTaken) {
		t.Fatalf("expected ErrAccountUsernameTaken, got %v", err)
	}
	if users.saves != 0 {
		t.Fatalf("expected no save, got %d", users.saves)
	}
	if len(users.users) != 1 || users.users[0].Password != "first" {
		t.Fatalf("expected stored user unchanged, got %+v", users.users)
	}
}

func TestLoginSetsSessionFlags(t *testing.T) {
	users := &memoryUserRepo{users: []domain.UserAccount{{Username: "ava", Password: "secret"}}}
	sessions := &memorySessionRepo{}
	svc, err := NewAccountService(AccountServiceDeps{Users: users, Sessions: sessions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := svc.Login(context.Background(), LoginCommand{Username: "ava", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.LoggedIn || session.Username != "ava" {
		t.Fatalf("unexpected session %+v", session)
	}
	if sessions.sets != 1 {
		t.Fatalf("expected one session write, got %d", sessions.sets)
	}
}

func TestLoginWrongPasswordLeavesFlagsUntouched(t *testing.T) {
	users := &memoryUserRepo{users: []domain.UserAccount{{Username: "ava", Password: "secret"}}}
	sessions := &memorySessionRepo{}
	svc, err := NewAccountService(AccountServiceDeps{Users: users, Sessions: sessions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginCommand{Username: "ava", Password: "wrong"})
	if !errors.Is(err, ErrAccountInvalidCredentials) {
		t.Fatalf("expected ErrAccountInvalidCredentials, got %v", err)
	}
	if sessions.sets != 0 {
		t.Fatalf("expected no session write, got %d", sessions.sets)
	}
	if sessions.session.LoggedIn {
		t.Fatal("expected logged out")
	}
}

func TestLoginUnknownUsername(t *testing.T) {
	svc, err := NewAccountService(AccountServiceDeps{Users: &memoryUserRepo{}, Sessions: &memorySessionRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginCommand{Username: "ghost", Password: "x"}); !errors.Is(err, ErrAccountInvalidCredentials) {
		t.Fatalf("expected ErrAccountInvalidCredentials, got %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	sessions := &memorySessionRepo{session: domain.Session{LoggedIn: true, Username: "ava"}}
	svc, err := NewAccountService(AccountServiceDeps{Users: &memoryUserRepo{}, Sessions: sessions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.clears != 1 {
		t.Fatalf("expected one clear, got %d", sessions.clears)
	}

	session, err := svc.Session(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.LoggedIn {
		t.Fatal("expected logged out after logout")
	}
}
