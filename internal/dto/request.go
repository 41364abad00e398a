package dto

type DemoPaymentRequest struct {
	RegistrationID string `json:"registrationId" validate:"required,uuid"`
}
