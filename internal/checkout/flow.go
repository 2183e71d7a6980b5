package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"

	"github.com/google/uuid"
)

type Tab string

const (
	// TabContactInfo is reserved; no transition makes it active.
	TabContactInfo     Tab = "ContactInfo"
	TabShippingAddress Tab = "ShippingAddress"
	TabPaymentMethod   Tab = "PaymentMethod"
)

var (
	ErrUnknownTab  = errors.New("unknown checkout tab")
	ErrAlreadyPaid = errors.New("order already paid")
)

func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabShippingAddress, TabPaymentMethod:
		return Tab(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Transition is the outcome of opening or closing a panel: the panel now
// active and the anchor the page should scroll to, if any.
type Transition struct {
	Active   Tab    `json:"active"`
	ScrollTo string `json:"scroll_to,omitempty"`
}

// Flow is one checkout. It works on the cart quote it was created with and
// never refetches the cart.
type Flow struct {
	mu             sync.Mutex
	id             string
	sessionID      string
	quote          cart.Quote
	active         Tab
	address        *backend.ShippingAddress
	idempotencyKey string
	order          *backend.Order
	confirming     bool
	paid           bool
	createdAt      time.Time
}

func NewFlow(sessionID string, quote cart.Quote) *Flow {
	return &Flow{
		id:             uuid.New().String(),
		sessionID:      sessionID,
		quote:          quote,
		active:         TabShippingAddress,
		idempotencyKey: uuid.New().String(),
		createdAt:      time.Now(),
	}
}

// Open makes tab the active panel.
func (f *Flow) Open(tab Tab) (Transition, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return Transition{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = tab
	return Transition{Active: tab, ScrollTo: string(tab)}, nil
}

// Close finishes tab. Closing the shipping panel always advances to payment;
// closing the payment panel leaves it active since it is the last step.
func (f *Flow) Close(tab Tab) (Transition, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return Transition{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch tab {
	case TabShippingAddress:
		f.active = TabPaymentMethod
		return Transition{Active: TabPaymentMethod, ScrollTo: string(TabPaymentMethod)}, nil
	default:
		f.active = TabPaymentMethod
		return Transition{Active: TabPaymentMethod}, nil
	}
}

func (f *Flow) Active() Tab {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *Flow) ID() string { return f.id }

func (f *Flow) Quote() cart.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quote
}

type State struct {
	ID           string                   `json:"id"`
	Active       Tab                      `json:"active"`
	Quote        cart.Quote               `json:"cart"`
	TotalDisplay string                   `json:"total_display"`
	Address      *backend.ShippingAddress `json:"shipping_address,omitempty"`
	OrderID      string                   `json:"order_id,omitempty"`
	Paid         bool                     `json:"paid"`
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := State{
		ID:           f.id,
		Active:       f.active,
		Quote:        f.quote,
		TotalDisplay: cart.FormatAmount(f.quote.TotalPrice),
		Address:      f.address,
		Paid:         f.paid,
	}
	if f.order != nil {
		s.OrderID = f.order.OrderID
		if s.OrderID == "" {
			s.OrderID = f.order.UID
		}
	}
	return s
}

func (f *Flow) setAddress(addr *backend.ShippingAddress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.address = addr
}
