package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is the single persisted credential of a browser session: the bearer
// token issued at login and the user object returned with it.
type Session struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Token        string    `json:"-" gorm:"not null"`
	RefreshToken string    `json:"-"`
	User         string    `json:"user" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
