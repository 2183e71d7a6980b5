// Package payment routes a confirmed checkout to the card, PayPal or
// mobile-money backend.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/backend"
	"storefront/internal/events"
	"storefront/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCreditCard  Method = "Credit-Card"
	MethodPayPal      Method = "PayPal"
	MethodMobileMoney Method = "M-Pesa"
)

const minPhoneLength = 10

var (
	ErrUnknownMethod       = errors.New("unknown payment method")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrDuplicateSubmission = errors.New("payment already in progress")
)

// ParseMethod accepts the display names as well as short aliases.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit-card", "creditcard", "card", "stripe":
		return MethodCreditCard, nil
	case "paypal":
		return MethodPayPal, nil
	case "m-pesa", "mpesa", "mobile-money", "mobilemoney":
		return MethodMobileMoney, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

type Request struct {
	Method Method
	Amount decimal.Decimal
	// Phone is only read for mobile money.
	Phone string
	// IdempotencyKey identifies one confirmation; a fresh key is generated
	// when empty.
	IdempotencyKey string
	SessionID      string
}

type Result struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Method         Method `json:"method"`
	IdempotencyKey string `json:"idempotency_key"`
}

type Backend interface {
	StripePayment(ctx context.Context, token string, amount decimal.Decimal, currency, idempotencyKey string) (*backend.PaymentResponse, error)
	PayPalPayment(ctx context.Context, token string, amount decimal.Decimal, currency, idempotencyKey string) (*backend.PaymentResponse, error)
	MpesaSTKPush(ctx context.Context, token, phone string, amount decimal.Decimal, idempotencyKey string) (*backend.PaymentResponse, error)
}

type Dispatcher struct {
	backend     Backend
	currency    string
	countryCode string
	publisher   events.Publisher
	logger      *logger.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewDispatcher(b Backend, currency, countryCode string, publisher events.Publisher, logger *logger.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Dispatcher{
		backend:     b,
		currency:    currency,
		countryCode: countryCode,
		publisher:   publisher,
		logger:      logger,
		inFlight:    map[string]bool{},
	}
}

// NormalizePhone prefixes countryCode, replacing the leading trunk digit,
// unless the number already starts with it.
func NormalizePhone(phone, countryCode string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if strings.HasPrefix(phone, countryCode) {
		return phone
	}
	if len(phone) > 0 {
		phone = phone[1:]
	}
	return countryCode + phone
}

// Validate performs the checks made before any request is sent.
func Validate(req Request) error {
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if req.Method == MethodMobileMoney && len(strings.TrimSpace(req.Phone)) < minPhoneLength {
		return ErrInvalidPhone
	}
	return nil
}

// Dispatch sends exactly one payment request. Validation failures and a
// missing token return an error without contacting the backend. A backend
// answer with success=false is a Result, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, token string, req Request) (*Result, error) {
	if token == "" {
		return nil, backend.ErrNoSession
	}
	method, err := ParseMethod(string(req.Method))
	if err != nil {
		return nil, err
	}
	req.Method = method
	if err := Validate(req); err != nil {
		return nil, err
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}
	if !d.acquire(key) {
		return nil, ErrDuplicateSubmission
	}
	defer d.release(key)

	var resp *backend.PaymentResponse
	switch req.Method {
	case MethodCreditCard:
		resp, err = d.backend.StripePayment(ctx, token, req.Amount, d.currency, key)
	case MethodPayPal:
		resp, err = d.backend.PayPalPayment(ctx, token, req.Amount, d.currency, key)
	case MethodMobileMoney:
		resp, err = d.backend.MpesaSTKPush(ctx, token, NormalizePhone(req.Phone, d.countryCode), req.Amount, key)
	}

	result := &Result{Method: req.Method, IdempotencyKey: key}
	switch {
	case err != nil:
		d.logger.Error("Error processing %s payment: %v", req.Method, err)
		result.Message = "Payment failed. Please try again."
	case resp != nil && resp.Success:
		result.Success = true
		result.Message = "Payment successful"
	default:
		reason := ""
		if resp != nil {
			reason = resp.Message
		}
		if reason == "" {
			reason = "Unknown error"
		}
		result.Message = "Payment failed: " + reason
	}

	ev := events.New(events.PaymentDispatched, req.SessionID)
	ev.Amount = req.Amount.String()
	ev.Method = string(req.Method)
	ev.Success = &result.Success
	ev.Message = result.Message
	if pubErr := d.publisher.Publish(ctx, ev); pubErr != nil {
		d.logger.Error("Failed to publish payment event: %v", pubErr)
	}

	if err != nil {
		return result, fmt.Errorf("payment failed: %w", err)
	}
	return result, nil
}

func (d *Dispatcher) acquire(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight[key] {
		return false
	}
	d.inFlight[key] = true
	return true
}

func (d *Dispatcher) release(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, key)
}
