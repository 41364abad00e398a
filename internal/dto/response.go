package dto

import (
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/google/uuid"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func OK(data any, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

type RegisterResponse struct {
	RegistrationID uuid.UUID `json:"registrationId"`
}

type RegistrationStatusResponse struct {
	Registered     bool                  `json:"registered"`
	RegistrationID *uuid.UUID            `json:"registrationId"`
	PaymentStatus  *models.PaymentStatus `json:"paymentStatus"`
}

type MyRegistrationResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Event         *EventResponse            `json:"event"`
	PaymentStatus models.PaymentStatus      `json:"paymentStatus"`
	Status        models.RegistrationStatus `json:"status"`
	TransactionID string                    `json:"transactionId"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// RegistrationResponse is the admin view of a ledger entry.
type RegistrationResponse struct {
	ID            uuid.UUID                 `json:"id"`
	EventID       uuid.UUID                 `json:"eventId"`
	UserID        uuid.UUID                 `json:"userId"`
	PaymentStatus models.PaymentStatus      `json:"paymentStatus"`
	PaymentMode   string                    `json:"paymentMode"`
	Status        models.RegistrationStatus `json:"status"`
	TransactionID string                    `json:"transactionId"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

type EventResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Fees                float64   `json:"fees"`
	Location            string    `json:"location"`
	EventDate           time.Time `json:"eventDate"`
	RegistrationEndDate time.Time `json:"registrationEndDate"`
}

type PaymentResponse struct {
	TransactionID  string    `json:"transactionId"`
	RegistrationID uuid.UUID `json:"registrationId"`
}

func ToEventResponse(e *models.Event) *EventResponse {
	if e == nil {
		return nil
	}
	return &EventResponse{
		ID:                  e.ID,
		Name:                e.Name,
		Description:         e.Description,
		Fees:                e.Fees,
		Location:            e.Location,
		EventDate:           e.EventDate,
		RegistrationEndDate: e.RegistrationEndDate,
	}
}

func ToMyRegistrationResponse(r *models.Registration) MyRegistrationResponse {
	return MyRegistrationResponse{
		ID:            r.ID,
		Event:         ToEventResponse(r.Event),
		PaymentStatus: r.PaymentStatus,
		Status:        r.Status,
		TransactionID: r.TransactionID,
		CreatedAt:     r.CreatedAt,
	}
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		UserID:        r.UserID,
		PaymentStatus: r.PaymentStatus,
		PaymentMode:   r.PaymentMode,
		Status:        r.Status,
		TransactionID: r.TransactionID,
		CreatedAt:     r.CreatedAt,
	}
}
