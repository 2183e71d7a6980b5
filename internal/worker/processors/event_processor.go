package processors

import (
	"context"
	"fmt"

	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/worker/processors/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activityTypes = map[events.Type]models.ActivityType{
	events.CartQuantityUpdated: models.ActivityCartQuantityUpdated,
	events.CartLineRemoved:     models.ActivityCartLineRemoved,
	events.OrderCreated:        models.ActivityOrderCreated,
	events.PaymentDispatched:   models.ActivityPaymentDispatched,
	events.SessionEnded:        models.ActivitySessionEnded,
}

// EventProcessor records storefront events as activity rows. Redelivered
// events are stored once.
type EventProcessor struct {
	db        *gorm.DB
	logger    *logger.Logger
	validator *validation.Validator
}

func NewEventProcessor(db *gorm.DB, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		db:        db,
		logger:    logger,
		validator: validation.New(logger),
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	if err := ep.validator.ValidateEvent(event); err != nil {
		return err
	}
	activityType, ok := activityTypes[event.Type]
	if !ok {
		return fmt.Errorf("%w: no activity for %q", validation.ErrInvalidEvent, event.Type)
	}

	activity := models.Activity{
		EventID:    event.ID,
		Type:       activityType,
		SessionID:  event.SessionID,
		ProductKey: event.ProductKey,
		Quantity:   event.Quantity,
		Amount:     event.Amount,
		Method:     event.Method,
		Success:    event.Success,
		Message:    event.Message,
		OccurredAt: event.Timestamp,
	}

	result := ep.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&activity)
	if result.Error != nil {
		return fmt.Errorf("failed to record activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		ep.logger.Debug("Event %s already recorded", event.ID)
		return nil
	}

	ep.logger.Debug("Recorded %s activity for session %s", event.Type, event.SessionID)
	return nil
}
