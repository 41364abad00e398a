package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Eursukkul/event-registration/internal/auth"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/notifier"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultNotifyTimeout = 10 * time.Second

// errPaymentNotApplied means the guarded update matched nothing yet the entry
// still reads as unpaid.
var errPaymentNotApplied = errors.New("payment update not applied")

// PaymentReceipt is returned to the client after a successful demo payment.
type PaymentReceipt struct {
	TransactionID  string
	RegistrationID uuid.UUID
}

type PaymentService interface {
	ConfirmPayment(ctx context.Context, registrationID uuid.UUID, who *auth.Identity) (*PaymentReceipt, error)
}

type paymentService struct {
	regRepo       repository.RegistrationRepository
	eventRepo     repository.EventRepository
	userRepo      repository.UserRepository
	notifier      notifier.Notifier
	log           *zap.Logger
	now           func() time.Time
	notifyTimeout time.Duration
}

func NewPaymentService(
	regRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	n notifier.Notifier,
	log *zap.Logger,
	notifyTimeout time.Duration,
) PaymentService {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &paymentService{
		regRepo:       regRepo,
		eventRepo:     eventRepo,
		userRepo:      userRepo,
		notifier:      n,
		log:           log,
		now:           time.Now,
		notifyTimeout: notifyTimeout,
	}
}

// ConfirmPayment simulates a demo UPI capture. The demo gateway never
// declines, so the only failures are a missing or already paid entry.
// who must be authenticated but need not own the registration.
func (s *paymentService) ConfirmPayment(ctx context.Context, registrationID uuid.UUID, who *auth.Identity) (*PaymentReceipt, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}

	txnID := newTransactionID(s.now())

	// The PENDING guard is part of the UPDATE, so of two concurrent calls
	// only one can flip the row.
	updated, err := s.regRepo.MarkPaid(ctx, registrationID, txnID)
	if err != nil {
		return nil, unavailable("mark registration paid", err)
	}
	if !updated {
		reg, err := s.regRepo.FindByID(ctx, registrationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRegistrationNotFound
			}
			return nil, unavailable("find registration", err)
		}
		if !reg.IsPaid() {
			return nil, unavailable("mark registration paid", errPaymentNotApplied)
		}
		return nil, ErrAlreadyPaid
	}

	s.log.Info("payment confirmed",
		zap.Stringer("registration_id", registrationID),
		zap.String("transaction_id", txnID),
	)

	// Notification outcome never changes the result from here on.
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	s.notify(nctx, registrationID, txnID)

	return &PaymentReceipt{TransactionID: txnID, RegistrationID: registrationID}, nil
}

func (s *paymentService) notify(ctx context.Context, registrationID uuid.UUID, txnID string) {
	log := s.log.With(zap.Stringer("registration_id", registrationID), zap.String("transaction_id", txnID))

	reg, err := s.regRepo.FindByID(ctx, registrationID)
	if err != nil {
		log.Warn("skip notification: registration lookup failed", zap.Error(err))
		return
	}
	user, err := s.userRepo.FindByID(ctx, reg.UserID)
	if err != nil {
		log.Warn("skip notification: user lookup failed", zap.Stringer("user_id", reg.UserID), zap.Error(err))
		return
	}
	event, err := s.eventRepo.FindByID(ctx, reg.EventID)
	if err != nil {
		log.Warn("skip notification: event lookup failed", zap.Stringer("event_id", reg.EventID), zap.Error(err))
		return
	}

	msg := notifier.RegistrationEmail{
		To:                 user.Email,
		StudentName:        user.FullName,
		EventName:          event.Name,
		TransactionID:      txnID,
		RegistrationStatus: string(models.StatusConfirmed),
	}
	if err := s.notifier.SendRegistrationEmail(ctx, msg); err != nil {
		log.Error("registration email failed", zap.String("to", user.Email), zap.Error(err))
		return
	}
	log.Debug("registration email dispatched", zap.String("to", user.Email))
}

// newTransactionID returns TXN-<base36 unix millis>-<6 random base36 chars>.
func newTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%s-%s", strconv.FormatInt(now.UnixMilli(), 36), randomBase36(6))
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	id := uuid.New()
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[int(id[i])%len(alphabet)])
	}
	return b.String()
}
