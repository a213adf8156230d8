package pay_booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
	"github.com/m04kA/SMC-LessonBookingService/internal/usecase/pay_booking"
	"github.com/m04kA/SMC-LessonBookingService/pkg/keylock"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/txmanager"
)

var createdAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc       *pay_booking.UseCase
	repo     *bookingRepo.Repository
	clock    *testsupport.FixedClock
	notifier *testsupport.RecordingNotifier
	booking  *domain.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testsupport.MustOpenSQLite(t)
	repo := bookingRepo.NewRepository(db, testsupport.SQLiteBuilder())
	clock := &testsupport.FixedClock{T: createdAt}
	rec := &testsupport.RecordingNotifier{}

	b, err := repo.Create(context.Background(), &domain.Booking{
		StudentID:       1,
		TeacherID:       7,
		Date:            createdAt.AddDate(0, 0, 7),
		DurationMinutes: 60,
		Price:           2000,
		Status:          domain.StatusPendingPayment,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	})
	require.NoError(t, err)

	uc := pay_booking.NewUseCase(
		repo,
		txmanager.NewTransactionManager(db, sqlbuilder.DialectSQLite),
		keylock.New(),
		rec,
		0,
		testsupport.NopLogger{},
	).WithTimeProvider(clock)

	return &fixture{uc: uc, repo: repo, clock: clock, notifier: rec, booking: b}
}

func (f *fixture) stored(t *testing.T) *domain.Booking {
	t.Helper()
	b, err := f.repo.GetByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	return b
}

func TestPayWithinWindowConfirms(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(14 * time.Minute)

	resp, err := f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 2000, resp.Price)

	assert.Equal(t, domain.StatusConfirmed, f.stored(t).Status)
	assert.Equal(t, []testsupport.RecordedEvent{
		{Event: notifier.EventBookingConfirmed, BookingID: f.booking.ID, Status: domain.StatusConfirmed},
	}, f.notifier.Events())
}

func TestPayExactlyAtWindowEdgeConfirms(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(15 * time.Minute)

	_, err := f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, f.stored(t).Status)
}

func TestPayAfterWindowPersistsExpiry(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(16 * time.Minute)

	_, err := f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	require.ErrorIs(t, err, pay_booking.ErrBookingExpired)

	// истечение сохранено, несмотря на ошибку
	assert.Equal(t, domain.StatusExpired, f.stored(t).Status)
	assert.Equal(t, []testsupport.RecordedEvent{
		{Event: notifier.EventBookingExpired, BookingID: f.booking.ID, Status: domain.StatusExpired},
	}, f.notifier.Events())

	// повторная попытка видит expired
	_, err = f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	var stateErr *domain.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, domain.StatusExpired, stateErr.Status)
}

func TestPayCancelledBookingIsInvalidState(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.UpdateStatus(context.Background(), f.booking.ID,
		domain.StatusPendingPayment, domain.StatusCancelled, createdAt))

	_, err := f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var stateErr *domain.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, domain.StatusCancelled, stateErr.Status)
}

func TestPayTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPayOwnershipAndMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID, StudentID: 7})
	assert.ErrorIs(t, err, pay_booking.ErrNotOwner)

	_, err = f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: f.booking.ID + 1, StudentID: 1})
	assert.ErrorIs(t, err, pay_booking.ErrBookingNotFound)

	_, err = f.uc.Execute(context.Background(), &pay_booking.Request{BookingID: 0, StudentID: 1})
	assert.ErrorIs(t, err, pay_booking.ErrInvalidInput)

	assert.Equal(t, domain.StatusPendingPayment, f.stored(t).Status)
}
