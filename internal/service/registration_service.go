package service

import (
	"context"
	"errors"
	"time"

	"github.com/Eursukkul/event-registration/internal/auth"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegistrationStatus answers "is the caller registered for this event".
type RegistrationStatus struct {
	Registered     bool
	RegistrationID *uuid.UUID
	PaymentStatus  *models.PaymentStatus
}

type RegistrationService interface {
	Register(ctx context.Context, eventID uuid.UUID, who *auth.Identity) (*models.Registration, error)
	CheckStatus(ctx context.Context, eventID uuid.UUID, who *auth.Identity) (*RegistrationStatus, error)
	ListMine(ctx context.Context, who *auth.Identity) ([]models.Registration, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID, who *auth.Identity, paymentStatus *models.PaymentStatus) ([]models.Registration, error)
}

type registrationService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	log       *zap.Logger
	now       func() time.Time
}

func NewRegistrationService(regRepo repository.RegistrationRepository, eventRepo repository.EventRepository, log *zap.Logger) RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		log:       log,
		now:       time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID uuid.UUID, who *auth.Identity) (*models.Registration, error) {
	// 1. Caller must be a student
	if who == nil {
		return nil, ErrUnauthenticated
	}
	if !who.Role.IsRegistrantEligible() {
		return nil, ErrNotRegistrant
	}

	// 2. Event must exist and still be open
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, unavailable("find event", err)
	}

	now := s.now()
	if !event.RegistrationOpen(now) {
		return nil, ErrRegistrationClosed
	}

	// 3. Insert; the unique index rejects a second entry for the same pair,
	// including one racing with this request.
	reg := models.NewRegistration(eventID, who.UserID, now)
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicateRegistration) {
			return nil, ErrAlreadyRegistered
		}
		return nil, unavailable("create registration", err)
	}

	s.log.Info("registration created",
		zap.Stringer("registration_id", reg.ID),
		zap.Stringer("event_id", eventID),
		zap.Stringer("user_id", who.UserID),
	)
	return reg, nil
}

func (s *registrationService) CheckStatus(ctx context.Context, eventID uuid.UUID, who *auth.Identity) (*RegistrationStatus, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}

	reg, err := s.regRepo.FindByUserAndEvent(ctx, who.UserID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &RegistrationStatus{}, nil
		}
		return nil, unavailable("find registration", err)
	}

	ps := reg.PaymentStatus
	return &RegistrationStatus{
		Registered:     true,
		RegistrationID: &reg.ID,
		PaymentStatus:  &ps,
	}, nil
}

func (s *registrationService) ListMine(ctx context.Context, who *auth.Identity) ([]models.Registration, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}

	regs, err := s.regRepo.FindByUser(ctx, who.UserID)
	if err != nil {
		return nil, unavailable("list registrations", err)
	}
	return regs, nil
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID uuid.UUID, who *auth.Identity, paymentStatus *models.PaymentStatus) ([]models.Registration, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	if !who.Role.CanManageRegistrations() {
		return nil, ErrNotManager
	}
	if paymentStatus != nil && !paymentStatus.Valid() {
		return nil, ErrValidation
	}

	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, unavailable("find event", err)
	}

	regs, err := s.regRepo.FindByEventID(ctx, eventID, paymentStatus)
	if err != nil {
		return nil, unavailable("list event registrations", err)
	}
	return regs, nil
}
