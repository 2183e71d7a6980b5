package checkout

import (
	"context"
	"fmt"

	"storefront/internal/backend"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/payment"

	"github.com/shopspring/decimal"
)

const defaultCountry = "United States"

type Backend interface {
	CreateOrder(ctx context.Context, token string, items []backend.OrderItem, total decimal.Decimal) (*backend.Order, error)
	ListShippingAddresses(ctx context.Context, token string) ([]backend.ShippingAddress, error)
	CreateShippingAddress(ctx context.Context, token string, addr backend.ShippingAddress) (*backend.ShippingAddress, error)
}

type Payments interface {
	Dispatch(ctx context.Context, token string, req payment.Request) (*payment.Result, error)
}

type Service struct {
	backend   Backend
	payments  Payments
	publisher events.Publisher
	logger    *logger.Logger
}

func NewService(b Backend, payments Payments, publisher events.Publisher, logger *logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{backend: b, payments: payments, publisher: publisher, logger: logger}
}

// AddressForm is the shipping panel's content: saved addresses and the form
// pre-filled from the current default, if one exists.
type AddressForm struct {
	Addresses []backend.ShippingAddress `json:"addresses"`
	Prefill   backend.ShippingAddress   `json:"prefill"`
}

func (s *Service) Addresses(ctx context.Context, token string) (*AddressForm, error) {
	addresses, err := s.backend.ListShippingAddresses(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}

	form := &AddressForm{
		Addresses: addresses,
		Prefill:   backend.ShippingAddress{Country: defaultCountry},
	}
	for _, addr := range addresses {
		if addr.CurrentAddress {
			form.Prefill = addr
			form.Prefill.ID = 0
			if form.Prefill.Country == "" {
				form.Prefill.Country = defaultCountry
			}
			break
		}
	}
	return form, nil
}

// SaveAddress stores a new address and, on success, closes the shipping
// panel which advances the flow to payment.
func (s *Service) SaveAddress(ctx context.Context, token string, f *Flow, addr backend.ShippingAddress) (*backend.ShippingAddress, Transition, error) {
	saved, err := s.backend.CreateShippingAddress(ctx, token, addr)
	if err != nil {
		s.logger.Error("Error saving address: %v", err)
		return nil, Transition{Active: f.Active()}, fmt.Errorf("failed to save address: %w", err)
	}
	f.setAddress(saved)
	tr, err := f.Close(TabShippingAddress)
	return saved, tr, err
}

type ConfirmRequest struct {
	Method payment.Method
	Phone  string
}

// Confirm creates the order for the flow's quote, once, and dispatches the
// payment under the flow's idempotency key. A paid flow cannot be confirmed
// again.
func (s *Service) Confirm(ctx context.Context, token string, f *Flow, req ConfirmRequest) (*payment.Result, error) {
	if token == "" {
		return nil, backend.ErrNoSession
	}

	f.mu.Lock()
	switch {
	case f.paid:
		f.mu.Unlock()
		return nil, ErrAlreadyPaid
	case f.confirming:
		f.mu.Unlock()
		return nil, payment.ErrDuplicateSubmission
	}
	f.confirming = true
	quote := f.quote
	order := f.order
	key := f.idempotencyKey
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.confirming = false
		f.mu.Unlock()
	}()

	method, err := payment.ParseMethod(string(req.Method))
	if err != nil {
		return nil, err
	}
	payReq := payment.Request{
		Method:         method,
		Amount:         quote.TotalPrice,
		Phone:          req.Phone,
		IdempotencyKey: key,
		SessionID:      f.sessionID,
	}
	if err := payment.Validate(payReq); err != nil {
		return nil, err
	}

	if order == nil {
		items := make([]backend.OrderItem, 0, len(quote.Items))
		for _, l := range quote.Items {
			items = append(items, backend.OrderItem{ProductSlug: l.ProductKey, Quantity: l.Quantity, Price: l.UnitPrice})
		}

		created, err := s.backend.CreateOrder(ctx, token, items, quote.TotalPrice)
		if err != nil {
			s.logger.Error("Error creating order: %v", err)
			return nil, fmt.Errorf("failed to create order: %w", err)
		}

		f.mu.Lock()
		f.order = created
		f.mu.Unlock()

		ev := events.New(events.OrderCreated, f.sessionID)
		ev.Amount = quote.TotalPrice.String()
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Error("Failed to publish order event: %v", err)
		}
	}

	result, err := s.payments.Dispatch(ctx, token, payReq)
	if result != nil && result.Success {
		f.mu.Lock()
		f.paid = true
		f.mu.Unlock()
	}
	return result, err
}
