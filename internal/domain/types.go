package domain

import (
	"strings"
	"time"
)

// CartLine is one product entry in the cart. The product name is the unique
// key: adding a product whose name already exists increments the quantity of
// the existing line and leaves its price and image untouched.
type CartLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price multiplied by quantity for the line.
func (l CartLine) LineTotal() float64 {
	if l.Quantity <= 0 {
		return 0
	}
	return l.Price * float64(l.Quantity)
}

// Cart is the ordered sequence of cart lines; insertion order is display
// order. A nil or absent persisted cart loads as an empty cart.
type Cart struct {
	Lines []CartLine
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line with the exact name, or -1.
func (c Cart) FindLine(name string) int {
	for i, line := range c.Lines {
		if line.Name == name {
			return i
		}
	}
	return -1
}

// UserAccount is a stored account record. Usernames are unique at sign-up
// time; passwords are stored and compared as plaintext.
type UserAccount struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the minimal persisted login state: a flag plus a weak username
// reference. There is no token and no expiry.
type Session struct {
	LoggedIn bool
	Username string
}

// PaymentMethod enumerates the selectable payment methods on the payment form.
type PaymentMethod string

const (
	// PaymentMethodCard pays by card and requires card holder and number.
	PaymentMethodCard PaymentMethod = "card"
	// PaymentMethodCOD places a cash-on-delivery order.
	PaymentMethodCOD PaymentMethod = "cod"
)

// ParsePaymentMethod normalises a raw form value into a PaymentMethod.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentMethodCard:
		return PaymentMethodCard, true
	case PaymentMethodCOD:
		return PaymentMethodCOD, true
	default:
		return "", false
	}
}

// OrderConfirmation is the outcome of a completed checkout: the success popup
// content plus the scheduled redirect delay back to the home page.
type OrderConfirmation struct {
	OrderID       string
	Method        PaymentMethod
	Title         string
	Message       string
	PlacedAt      time.Time
	RedirectAfter time.Duration
	RedirectTo    string
}
