package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is the local replica of an Event Catalog entry.
type Event struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	Description         string    `json:"description"`
	Fees                float64   `gorm:"not null;default:0" json:"fees"`
	Location            string    `json:"location"`
	IsPublished         bool      `gorm:"not null;default:false" json:"isPublished"`
	EventDate           time.Time `json:"eventDate"`
	RegistrationEndDate time.Time `json:"registrationEndDate"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// RegistrationOpen reports whether registrations are still accepted at now.
// An event without an end date never closes.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.RegistrationEndDate.IsZero() || !now.After(e.RegistrationEndDate)
}
