package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Valid reports whether s is one of the known payment states.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "PENDING"
	StatusConfirmed RegistrationStatus = "CONFIRMED"
	StatusCancelled RegistrationStatus = "CANCELLED"
)

const PaymentModeDemoUPI = "UPI_DEMO"

// Registration is one ledger entry tying a user to an event.
// The (event_id, user_id) pair is unique.
type Registration struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_event_user,priority:1" json:"eventId"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_event_user,priority:2;index:idx_registration_user" json:"userId"`
	PaymentStatus PaymentStatus      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"paymentStatus"`
	PaymentMode   string             `gorm:"type:varchar(20);not null;default:'UPI_DEMO'" json:"paymentMode"`
	Status        RegistrationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TransactionID string             `gorm:"type:varchar(64);not null;default:''" json:"transactionId"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// NewRegistration returns a pending, unpaid entry for the pair.
func NewRegistration(eventID, userID uuid.UUID, now time.Time) *Registration {
	return &Registration{
		ID:            uuid.New(),
		EventID:       eventID,
		UserID:        userID,
		PaymentStatus: PaymentPending,
		PaymentMode:   PaymentModeDemoUPI,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (r *Registration) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}
