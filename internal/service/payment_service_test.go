package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/event-registration/internal/auth"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/notifier"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

var txnPattern = regexp.MustCompile(`^TXN-[0-9a-z]+-[0-9a-z]{6}$`)

type paymentFixture struct {
	ledger   *memLedger
	event    *models.Event
	user     *models.User
	notifier *mockNotifier
	svc      *paymentService
	regID    uuid.UUID
}

func newPaymentFixture(t *testing.T, log *zap.Logger) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		ledger:   newMemLedger(),
		event:    sampleEvent(),
		notifier: &mockNotifier{},
	}
	f.user = &models.User{ID: uuid.New(), FullName: "Student S", Email: "s@college.edu", Role: "Student"}

	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			if id == f.user.ID {
				return f.user, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	f.svc = NewPaymentService(f.ledger, eventRepoFor(f.event), users, f.notifier, log, time.Second).(*paymentService)
	f.svc.now = func() time.Time { return fixedNow }

	reg := models.NewRegistration(f.event.ID, f.user.ID, fixedNow)
	require.NoError(t, f.ledger.Create(context.Background(), reg))
	f.regID = reg.ID
	return f
}

// Scenario D: confirmation marks the entry paid and returns a TXN id.
func TestConfirmPayment_Success(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))

	receipt, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())

	require.NoError(t, err)
	assert.Equal(t, f.regID, receipt.RegistrationID)
	assert.Regexp(t, txnPattern, receipt.TransactionID)

	reg, err := f.ledger.FindByID(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, reg.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, reg.Status)
	assert.Equal(t, receipt.TransactionID, reg.TransactionID)

	require.Equal(t, 1, f.notifier.count())
	msg := f.notifier.sent[0]
	assert.Equal(t, "s@college.edu", msg.To)
	assert.Equal(t, "Student S", msg.StudentName)
	assert.Equal(t, "Code Sprint", msg.EventName)
	assert.Equal(t, receipt.TransactionID, msg.TransactionID)
	assert.Equal(t, "CONFIRMED", msg.RegistrationStatus)
}

// Scenario E: a second confirmation fails and leaves the entry untouched.
func TestConfirmPayment_AlreadyPaid(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))

	first, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())
	require.NoError(t, err)

	second, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())

	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Nil(t, second)

	reg, err := f.ledger.FindByID(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, reg.TransactionID)
	assert.Equal(t, models.PaymentPaid, reg.PaymentStatus)
	assert.Equal(t, 1, f.notifier.count())
}

func TestConfirmPayment_NotFound(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))

	_, err := f.svc.ConfirmPayment(context.Background(), uuid.New(), student())

	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	assert.Equal(t, 0, f.notifier.count())
}

func TestConfirmPayment_UpdateNotAppliedIsUnavailable(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))
	f.ledger.skipMarkPaid = true

	_, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())

	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.NotErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, 0, f.notifier.count())
}

// Any authenticated caller holding the id may confirm it.
func TestConfirmPayment_NoOwnershipCheck(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))
	other := &auth.Identity{UserID: uuid.New(), Role: models.RoleStudent}

	receipt, err := f.svc.ConfirmPayment(context.Background(), f.regID, other)

	require.NoError(t, err)
	assert.Equal(t, f.regID, receipt.RegistrationID)
	assert.Equal(t, "s@college.edu", f.notifier.sent[0].To)
}

func TestConfirmPayment_Unauthenticated(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))

	_, err := f.svc.ConfirmPayment(context.Background(), f.regID, nil)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	reg, _ := f.ledger.FindByID(context.Background(), f.regID)
	assert.Equal(t, models.PaymentPending, reg.PaymentStatus)
}

func TestConfirmPayment_StoreFailure(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))
	f.ledger.failErr = errors.New("connection reset by peer")

	_, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())

	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Equal(t, 0, f.notifier.count())
}

// Notification failures are logged and never fail the confirmation.
func TestConfirmPayment_NotificationFailureIsolated(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := newPaymentFixture(t, zap.New(core))
	f.notifier.err = errors.New("smtp: 421 service not available")

	receipt, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())

	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TransactionID)

	reg, err := f.ledger.FindByID(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, reg.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, reg.Status)

	assert.Equal(t, 1, logs.FilterMessage("registration email failed").Len())
}

func TestConfirmPayment_MissingUserSkipsNotification(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := newPaymentFixture(t, zap.New(core))
	f.user.ID = uuid.New()

	_, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())

	require.NoError(t, err)
	assert.Equal(t, 0, f.notifier.count())
	assert.Equal(t, 1, logs.FilterMessage("skip notification: user lookup failed").Len())
}

type ctxCheckingNotifier struct {
	ctxErr      error
	hasDeadline bool
}

func (n *ctxCheckingNotifier) SendRegistrationEmail(ctx context.Context, _ notifier.RegistrationEmail) error {
	n.ctxErr = ctx.Err()
	_, n.hasDeadline = ctx.Deadline()
	return nil
}

// The email goes out on a context detached from the request but bounded by
// the notify timeout.
func TestConfirmPayment_NotificationContextDetached(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))
	n := &ctxCheckingNotifier{}
	f.svc.notifier = n

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.ConfirmPayment(ctx, f.regID, student())

	require.NoError(t, err)
	assert.NoError(t, n.ctxErr)
	assert.True(t, n.hasDeadline)
}

// Concurrent confirmations: exactly one succeeds, one id, one email.
func TestConfirmPayment_Concurrent(t *testing.T) {
	f := newPaymentFixture(t, zaptest.NewLogger(t))

	const n = 20
	var wg sync.WaitGroup
	receipts := make(chan *PaymentReceipt, n)
	errs := make(chan error, n)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			r, err := f.svc.ConfirmPayment(context.Background(), f.regID, student())
			if err != nil {
				errs <- err
				return
			}
			receipts <- r
		}()
	}
	wg.Wait()
	close(receipts)
	close(errs)

	require.Len(t, receipts, 1)
	for err := range errs {
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	}
	assert.Equal(t, 1, f.notifier.count())

	winner := <-receipts
	reg, err := f.ledger.FindByID(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Equal(t, winner.TransactionID, reg.TransactionID)
}

func TestNewTransactionID_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := newTransactionID(fixedNow)
		assert.Regexp(t, txnPattern, id)
		seen[id] = true
	}
	// Same millisecond: the random part alone must keep ids apart.
	assert.Greater(t, len(seen), 990)
}
