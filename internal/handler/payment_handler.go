package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/middleware"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	svc service.PaymentService
	log *zap.Logger
}

func NewPaymentHandler(svc service.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

func (h *PaymentHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	payments := api.Group("/payments", authn)
	payments.POST("/demo-upi", h.DemoUPIPayment)
}

func (h *PaymentHandler) DemoUPIPayment(c echo.Context) error {
	var req dto.DemoPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return demoPaymentValidationError(err)
	}

	regID, err := uuid.Parse(req.RegistrationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registrationId")
	}

	receipt, err := h.svc.ConfirmPayment(c.Request().Context(), regID, middleware.IdentityFrom(c))
	if err != nil {
		return toHTTPError(err, h.log)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.PaymentResponse{
		TransactionID:  receipt.TransactionID,
		RegistrationID: receipt.RegistrationID,
	}, "Payment successful"))
}

func demoPaymentValidationError(err error) *echo.HTTPError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		if fe.Tag() == "required" {
			return echo.NewHTTPError(http.StatusBadRequest, "registrationId is required")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registrationId")
	}
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
}
