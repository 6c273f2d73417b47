package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/serenity-glow/storefront/internal/domain"
)

type memoryCartRepo struct {
	cart    domain.Cart
	exists  bool
	loadErr error
	saveErr error
}

func (r *memoryCartRepo) Load(ctx context.Context) (domain.Cart, error) {
	if r.loadErr != nil {
		return domain.Cart{}, r.loadErr
	}
	if !r.exists {
		return domain.Cart{Lines: []domain.CartLine{}}, nil
	}
	lines := make([]domain.CartLine, len(r.cart.Lines))
	copy(lines, r.cart.Lines)
	return domain.Cart{Lines: lines}, nil
}

func (r *memoryCartRepo) Save(ctx context.Context, cart domain.Cart) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.cart = cart
	r.exists = true
	return nil
}

func (r *memoryCartRepo) Clear(ctx context.Context) error {
	r.cart = domain.Cart{}
	r.exists = false
	return nil
}

type memoryUserRepo struct {
	users   []domain.UserAccount
	listErr error
	saveErr error
	saves   int
}

func (r *memoryUserRepo) List(ctx context.Context) ([]domain.UserAccount, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	users := make([]domain.UserAccount, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *memoryUserRepo) Save(ctx context.Context, users []domain.UserAccount) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.users = users
	r.saves++
	return nil
}

type memorySessionRepo struct {
	session domain.Session
	sets    int
	clears  int
}

func (r *memorySessionRepo) Current(ctx context.Context) (domain.Session, error) {
	return r.session, nil
}

func (r *memorySessionRepo) SetLoggedIn(ctx context.Context, username string) error {
	r.session = domain.Session{LoggedIn: true, Username: username}
	r.sets++
	return nil
}

func (r *memorySessionRepo) Clear(ctx context.Context) error {
	r.session = domain.Session{}
	r.clears++
	return nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) {
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) Current() Toast {
	if len(n.messages) == 0 {
		return Toast{}
	}
	return Toast{Message: n.messages[len(n.messages)-1], Visible: true}
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
}

func TestNewCartServiceRequiresRepository(t *testing.T) {
	if _, err := NewCartService(CartServiceDeps{}); err == nil {
		t.Fatal("expected error for missing repository")
	}
}

func TestAddItemAppendsNewLine(t *testing.T) {
	repo := &memoryCartRepo{}
	notifier := &recordingNotifier{}
	svc, err := NewCartService(CartServiceDeps{Repository: repo, Notifier: notifier})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := svc.AddItem(context.Background(), AddItemCommand{Name: "Facial", Price: 50, Image: "facial.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Name != "Facial" || line.Price != 50 || line.Image != "facial.jpg" || line.Quantity != 1 {
		t.Fatalf("unexpected line %+v", line)
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != "Facial added to cart!" {
		t.Fatalf("unexpected notifications %v", notifier.messages)
	}
}

func TestAddItemMergesByName(t *testing.T) {
	repo := &memoryCartRepo{
		cart:   domain.Cart{Lines: []domain.CartLine{{Name: "Facial", Price: 50, Image: "facial.jpg", Quantity: 1}}},
		exists: true,
	}
	svc, err := NewCartService(CartServiceDeps{Repository: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := svc.AddItem(context.Background(), AddItemCommand{Name: "Facial", Price: 999, Image: "other.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity)
	}
	if line.Price != 50 || line.Image != "facial.jpg" {
		t.Fatalf("expected stored price and image untouched, got %+v", line)
	}
}

func TestAddItemRejectsBlankName(t *testing.T) {
	svc, err := NewCartService(CartServiceDeps{Repository: &memoryCartRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.AddItem(context.Background(), AddItemCommand{Name: "   ", Price: 10}); !errors.Is(err, ErrCartInvalidInput) {
		t.Fatalf("expected ErrCartInvalidInput, got %v", err)
	}
}

func TestRemoveItemFiltersByName(t *testing.T) {
	repo := &memoryCartRepo{
		cart: domain.Cart{Lines: []domain.CartLine{
			{Name: "Facial", Price: 50, Quantity: 2},
			{Name: "Massage", Price: 30, Quantity: 1},
		}},
		exists: true,
	}
	svc, err := NewCartService(CartServiceDeps{Repository: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := svc.RemoveItem(context.Background(), "Facial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Name != "Massage" {
		t.Fatalf("unexpected cart %+v", cart.Lines)
	}
}

func TestRemoveItemUnknownNameIsNoOp(t *testing.T) {
	repo := &memoryCartRepo{
		cart:   domain.Cart{Lines: []domain.CartLine{{Name: "Facial", Price: 50, Quantity: 1}}},
		exists: true,
	}
	svc, err := NewCartService(CartServiceDeps{Repository: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := svc.RemoveItem(context.Background(), "Pedicure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Name != "Facial" {
		t.Fatalf("expected cart unchanged, got %+v", cart.Lines)
	}
}

func TestSummarizeAppliesFivePercentTax(t *testing.T) {
	svc, err := NewCartService(CartServiceDeps{Repository: &memoryCartRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := svc.Summarize(domain.Cart{Lines: []domain.CartLine{
		{Name: "Facial", Price: 50, Quantity: 2},
		{Name: "Massage", Price: 30, Quantity: 1},
	}})
	if summary.Subtotal != 130 {
		t.Fatalf("expected subtotal 130, got %v", summary.Subtotal)
	}
	if summary.Tax != 6.5 {
		t.Fatalf("expected tax 6.5, got %v", summary.Tax)
	}
	if summary.Total != 136.5 {
		t.Fatalf("expected total 136.5, got %v", summary.Total)
	}
}

func TestRepeatedAddFormatsExpectedTotal(t *testing.T) {
	repo := &memoryCartRepo{}
	svc, err := NewCartService(CartServiceDeps{Repository: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, AddItemCommand{Name: "Facial", Price: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.AddItem(ctx, AddItemCommand{Name: "Facial", Price: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", cart.Lines)
	}

	summary := svc.Summarize(cart)
	if got := domain.FormatAmount(summary.Total); got != "$105.00" {
		t.Fatalf("expected $105.00, got %q", got)
	}
}

func TestClearRemovesCart(t *testing.T) {
	repo := &memoryCartRepo{
		cart:   domain.Cart{Lines: []domain.CartLine{{Name: "Facial", Price: 50, Quantity: 1}}},
		exists: true,
	}
	svc, err := NewCartService(CartServiceDeps{Repository: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.exists {
		t.Fatal("expected cart key removed")
	}
}
