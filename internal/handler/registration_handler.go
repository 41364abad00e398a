package handler

import (
	"net/http"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/middleware"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	svc service.RegistrationService
	log *zap.Logger
}

func NewRegistrationHandler(svc service.RegistrationService, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, log: log}
}

// RegisterRoutes mounts the registration endpoints; every route requires
// authn.
func (h *RegistrationHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	events := api.Group("/events", authn)
	events.GET("/my-events", h.ListMine)
	events.POST("/:id/register", h.Register)
	events.GET("/:id/registration-status", h.CheckStatus)
	events.GET("/:id/registrations", h.ListForEvent)

	api.GET("/auth/registrations", h.ListMine, authn)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	reg, err := h.svc.Register(c.Request().Context(), eventID, middleware.IdentityFrom(c))
	if err != nil {
		return toHTTPError(err, h.log)
	}

	return c.JSON(http.StatusCreated, dto.OK(dto.RegisterResponse{RegistrationID: reg.ID}, "Registered (pending payment)"))
}

func (h *RegistrationHandler) CheckStatus(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	status, err := h.svc.CheckStatus(c.Request().Context(), eventID, middleware.IdentityFrom(c))
	if err != nil {
		return toHTTPError(err, h.log)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.RegistrationStatusResponse{
		Registered:     status.Registered,
		RegistrationID: status.RegistrationID,
		PaymentStatus:  status.PaymentStatus,
	}, "Registration status fetched"))
}

func (h *RegistrationHandler) ListMine(c echo.Context) error {
	regs, err := h.svc.ListMine(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return toHTTPError(err, h.log)
	}

	resp := make([]dto.MyRegistrationResponse, len(regs))
	for i := range regs {
		resp[i] = dto.ToMyRegistrationResponse(&regs[i])
	}

	return c.JSON(http.StatusOK, dto.OK(resp, "User registrations fetched"))
}

func (h *RegistrationHandler) ListForEvent(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var paymentStatus *models.PaymentStatus
	if s := c.QueryParam("paymentStatus"); s != "" {
		ps := models.PaymentStatus(s)
		paymentStatus = &ps
	}

	regs, err := h.svc.ListForEvent(c.Request().Context(), eventID, middleware.IdentityFrom(c), paymentStatus)
	if err != nil {
		return toHTTPError(err, h.log)
	}

	resp := make([]dto.RegistrationResponse, len(regs))
	for i := range regs {
		resp[i] = dto.ToRegistrationResponse(&regs[i])
	}

	return c.JSON(http.StatusOK, dto.OK(resp, "Event registrations fetched"))
}
