package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateRegistration is returned by Create when the (event, user) pair
// already has a ledger entry.
var ErrDuplicateRegistration = errors.New("registration already exists for event and user")

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Registration, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID, paymentStatus *models.PaymentStatus) ([]models.Registration, error)
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create inserts reg. Uniqueness of (event_id, user_id) is enforced by the
// idx_registration_event_user index, so concurrent inserts for the same pair
// cannot both succeed.
func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	err := r.db.WithContext(ctx).Create(reg).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRegistration
	}
	return err
}

func (r *registrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// FindByUser returns the user's entries joined with their events, newest first.
func (r *registrationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) FindByEventID(ctx context.Context, eventID uuid.UUID, paymentStatus *models.PaymentStatus) ([]models.Registration, error) {
	var regs []models.Registration
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if paymentStatus != nil {
		q = q.Where("payment_status = ?", *paymentStatus)
	}
	if err := q.Order("created_at ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// MarkPaid moves a PENDING entry to PAID/CONFIRMED in one conditional
// update. It reports false when no PENDING entry with that id exists, which
// includes the case where a concurrent call already marked it paid.
func (r *registrationRepository) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentPending).
		Updates(map[string]any{
			"transaction_id": transactionID,
			"payment_status": models.PaymentPaid,
			"status":         models.StatusConfirmed,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
