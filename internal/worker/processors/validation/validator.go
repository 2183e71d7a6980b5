package validation

import (
	"errors"
	"fmt"

	"storefront/internal/events"
	"storefront/internal/logger"

	"github.com/shopspring/decimal"
)

var ErrInvalidEvent = errors.New("invalid event")

type Validator struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateEvent checks the fields each event type must carry.
func (v *Validator) ValidateEvent(event events.Event) error {
	v.logger.Debug("Validating event: %+v", event)

	if event.ID == "" {
		return invalid("missing id")
	}
	if event.Timestamp.IsZero() {
		return invalid("missing timestamp")
	}

	switch event.Type {
	case events.CartQuantityUpdated:
		if event.ProductKey == "" {
			return invalid("missing product key")
		}
		if event.Quantity < 1 {
			return invalid("quantity %d below 1", event.Quantity)
		}
	case events.CartLineRemoved:
		if event.ProductKey == "" {
			return invalid("missing product key")
		}
	case events.OrderCreated:
		if err := positiveAmount(event.Amount); err != nil {
			return err
		}
	case events.PaymentDispatched:
		if event.Method == "" {
			return invalid("missing payment method")
		}
		if event.Success == nil {
			return invalid("missing payment outcome")
		}
		if err := positiveAmount(event.Amount); err != nil {
			return err
		}
	case events.SessionEnded:
	default:
		return invalid("unknown type %q", event.Type)
	}
	return nil
}

func positiveAmount(s string) error {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return invalid("amount %q: %v", s, err)
	}
	if !amount.IsPositive() {
		return invalid("amount %s not positive", amount)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(format, args...))
}
