package bookings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
	"github.com/m04kA/SMC-LessonBookingService/pkg/keylock"
	"github.com/m04kA/SMC-LessonBookingService/pkg/ptr"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/txmanager"
)

const (
	studentID  = int64(1)
	teacherID  = int64(7)
	strangerID = int64(99)
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *bookings.Service
	repo     *bookingRepo.Repository
	notifier *testsupport.RecordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testsupport.MustOpenSQLite(t)
	repo := bookingRepo.NewRepository(db, testsupport.SQLiteBuilder())
	rec := &testsupport.RecordingNotifier{}

	svc := bookings.NewService(
		repo,
		txmanager.NewTransactionManager(db, sqlbuilder.DialectSQLite),
		keylock.New(),
		rec,
		&testsupport.FixedClock{T: now},
		testsupport.NopLogger{},
	)

	return &fixture{svc: svc, repo: repo, notifier: rec}
}

func (f *fixture) seed(t *testing.T, status domain.BookingStatus, at time.Time) *domain.Booking {
	t.Helper()
	b, err := f.repo.Create(context.Background(), &domain.Booking{
		StudentID:       studentID,
		TeacherID:       teacherID,
		Date:            at,
		DurationMinutes: 60,
		Price:           2000,
		Status:          domain.StatusPendingPayment,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	if status != domain.StatusPendingPayment {
		require.NoError(t, f.repo.UpdateStatus(context.Background(), b.ID, domain.StatusPendingPayment, status, now))
		b.Status = status
	}
	return b
}

func lesson(days int) time.Time {
	return now.AddDate(0, 0, days).Truncate(24 * time.Hour).Add(14 * time.Hour)
}

func TestGetByIDParticipantsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, domain.StatusPendingPayment, lesson(1))

	resp, err := f.svc.GetByID(ctx, b.ID, studentID)
	require.NoError(t, err)
	assert.Equal(t, "pending_payment", resp.Status)

	_, err = f.svc.GetByID(ctx, b.ID, teacherID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, b.ID, strangerID)
	assert.ErrorIs(t, err, bookings.ErrNotOwner)

	_, err = f.svc.GetByID(ctx, b.ID+1, studentID)
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
}

func TestCancelByStudentAndTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.seed(t, domain.StatusPendingPayment, lesson(1))
	confirmed := f.seed(t, domain.StatusConfirmed, lesson(2))

	resp, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: pending.ID, RequesterID: studentID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	resp, err = f.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: confirmed.ID, RequesterID: teacherID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	stored, err := f.repo.GetByID(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	assert.Equal(t, []testsupport.RecordedEvent{
		{Event: notifier.EventBookingCancelled, BookingID: pending.ID, Status: domain.StatusCancelled},
		{Event: notifier.EventBookingCancelled, BookingID: confirmed.ID, Status: domain.StatusCancelled},
	}, f.notifier.Events())
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.seed(t, domain.StatusPendingPayment, lesson(1))
	expired := f.seed(t, domain.StatusExpired, lesson(3))

	_, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, RequesterID: studentID})
	require.NoError(t, err)

	resp, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, RequesterID: studentID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	resp, err = f.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: expired.ID, RequesterID: studentID})
	require.NoError(t, err)
	assert.Equal(t, "expired", resp.Status)

	assert.Len(t, f.notifier.Events(), 1)
}

func TestCancelRejectsStranger(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, domain.StatusPendingPayment, lesson(1))

	_, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{BookingID: b.ID, RequesterID: strangerID})
	assert.ErrorIs(t, err, bookings.ErrNotOwner)

	_, err = f.svc.Cancel(context.Background(), &models.CancelBookingRequest{BookingID: b.ID + 10, RequesterID: studentID})
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
}

func TestSetMeetingLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.seed(t, domain.StatusPendingPayment, lesson(1))
	confirmed := f.seed(t, domain.StatusConfirmed, lesson(2))

	resp, err := f.svc.SetMeetingLink(ctx, &models.SetMeetingLinkRequest{
		BookingID: confirmed.ID, RequesterID: teacherID, MeetingLink: "https://meet.example/xyz",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.MeetingLink)
	assert.Equal(t, "https://meet.example/xyz", *resp.MeetingLink)

	_, err = f.svc.SetMeetingLink(ctx, &models.SetMeetingLinkRequest{
		BookingID: confirmed.ID, RequesterID: studentID, MeetingLink: "https://meet.example/xyz",
	})
	assert.ErrorIs(t, err, bookings.ErrNotOwner)

	_, err = f.svc.SetMeetingLink(ctx, &models.SetMeetingLinkRequest{
		BookingID: pending.ID, RequesterID: teacherID, MeetingLink: "https://meet.example/xyz",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.SetMeetingLink(ctx, &models.SetMeetingLinkRequest{
		BookingID: confirmed.ID, RequesterID: teacherID, MeetingLink: "not a url",
	})
	assert.ErrorIs(t, err, bookings.ErrInvalidInput)
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, domain.StatusPendingPayment, lesson(1))
	f.seed(t, domain.StatusCancelled, lesson(2))

	list, err := f.svc.GetStudentBookings(ctx, &models.GetStudentBookingsRequest{RequesterID: studentID, StudentID: studentID})
	require.NoError(t, err)
	assert.Len(t, list.Bookings, 2)

	list, err = f.svc.GetStudentBookings(ctx, &models.GetStudentBookingsRequest{
		RequesterID: studentID, StudentID: studentID, Status: ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	assert.Len(t, list.Bookings, 1)

	_, err = f.svc.GetStudentBookings(ctx, &models.GetStudentBookingsRequest{
		RequesterID: studentID, StudentID: studentID, Status: ptr.Ptr("done"),
	})
	assert.ErrorIs(t, err, bookings.ErrInvalidInput)

	_, err = f.svc.GetStudentBookings(ctx, &models.GetStudentBookingsRequest{RequesterID: strangerID, StudentID: studentID})
	assert.ErrorIs(t, err, bookings.ErrNotOwner)

	list, err = f.svc.GetTeacherBookings(ctx, &models.GetTeacherBookingsRequest{RequesterID: teacherID, TeacherID: teacherID})
	require.NoError(t, err)
	assert.Len(t, list.Bookings, 1)

	list, err = f.svc.GetTeacherBookings(ctx, &models.GetTeacherBookingsRequest{
		RequesterID: teacherID, TeacherID: teacherID, IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, list.Bookings, 2)

	from, to := lesson(2), lesson(1)
	_, err = f.svc.GetTeacherBookings(ctx, &models.GetTeacherBookingsRequest{
		RequesterID: teacherID, TeacherID: teacherID, From: &from, To: &to,
	})
	assert.ErrorIs(t, err, bookings.ErrInvalidInput)
}
