package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID         string       `json:"id" gorm:"primaryKey;size:36"`
	EventID    string       `json:"event_id" gorm:"uniqueIndex;size:36"`
	Type       ActivityType `json:"type" gorm:"not null;index"`
	SessionID  string       `json:"session_id" gorm:"index"`
	ProductKey string       `json:"product_key"`
	Quantity   int          `json:"quantity"`
	Amount     string       `json:"amount"`
	Method     string       `json:"method"`
	Success    *bool        `json:"success"`
	Message    string       `json:"message"`
	OccurredAt time.Time    `json:"occurred_at"`
	CreatedAt  time.Time    `json:"created_at"`
}

type ActivityType string

const (
	ActivityCartQuantityUpdated ActivityType = "cart.quantity_updated"
	ActivityCartLineRemoved     ActivityType = "cart.line_removed"
	ActivityOrderCreated        ActivityType = "order.created"
	ActivityPaymentDispatched   ActivityType = "payment.dispatched"
	ActivitySessionEnded        ActivityType = "session.ended"
)

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
