package service

import (
	"context"
	"sync"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/notifier"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Mock EventRepository ---

type mockEventRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockEventRepo) Upsert(ctx context.Context, event *models.Event) error { return nil }

// --- Mock UserRepository ---

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error { return nil }

// --- Mock Notifier ---

type mockNotifier struct {
	mu   sync.Mutex
	sent []notifier.RegistrationEmail
	err  error
}

func (m *mockNotifier) SendRegistrationEmail(ctx context.Context, msg notifier.RegistrationEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// --- In-memory ledger ---

// memLedger behaves like the Postgres repository: a unique key on
// (event, user) and a guarded PENDING->PAID update, each applied atomically.
type memLedger struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.Registration
	byPair  map[[2]uuid.UUID]uuid.UUID
	failErr error
	// skipMarkPaid makes MarkPaid match nothing without changing the entry.
	skipMarkPaid bool
}

var _ repository.RegistrationRepository = (*memLedger)(nil)

func newMemLedger() *memLedger {
	return &memLedger{
		byID:   map[uuid.UUID]*models.Registration{},
		byPair: map[[2]uuid.UUID]uuid.UUID{},
	}
}

func (l *memLedger) Create(ctx context.Context, reg *models.Registration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		return l.failErr
	}
	key := [2]uuid.UUID{reg.EventID, reg.UserID}
	if _, ok := l.byPair[key]; ok {
		return repository.ErrDuplicateRegistration
	}
	cp := *reg
	l.byID[reg.ID] = &cp
	l.byPair[key] = reg.ID
	return nil
}

func (l *memLedger) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		return nil, l.failErr
	}
	reg, ok := l.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reg
	return &cp, nil
}

func (l *memLedger) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Registration, error) {
	l.mu.Lock()
	id, ok := l.byPair[[2]uuid.UUID{eventID, userID}]
	l.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l.FindByID(ctx, id)
}

func (l *memLedger) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Registration
	for _, reg := range l.byID {
		if reg.UserID == userID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (l *memLedger) FindByEventID(ctx context.Context, eventID uuid.UUID, ps *models.PaymentStatus) ([]models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Registration
	for _, reg := range l.byID {
		if reg.EventID == eventID && (ps == nil || reg.PaymentStatus == *ps) {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (l *memLedger) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		return false, l.failErr
	}
	reg, ok := l.byID[id]
	if !ok || l.skipMarkPaid || reg.PaymentStatus != models.PaymentPending {
		return false, nil
	}
	reg.TransactionID = transactionID
	reg.PaymentStatus = models.PaymentPaid
	reg.Status = models.StatusConfirmed
	return true, nil
}

func (l *memLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}
