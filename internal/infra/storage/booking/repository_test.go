package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
	"github.com/m04kA/SMC-LessonBookingService/pkg/ptr"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/txmanager"
)

var (
	createdAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	lessonAt  = time.Date(2025, 3, 17, 14, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) *booking.Repository {
	t.Helper()
	return booking.NewRepository(testsupport.MustOpenSQLite(t), testsupport.SQLiteBuilder())
}

func pending(studentID, teacherID int64, at time.Time) *domain.Booking {
	return &domain.Booking{
		StudentID:       studentID,
		TeacherID:       teacherID,
		Date:            at,
		DurationMinutes: 60,
		Price:           2000,
		Status:          domain.StatusPendingPayment,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	b := pending(1, 7, lessonAt)
	b.SubjectID = ptr.Ptr(int64(3))
	b.Notes = ptr.Ptr("grammar")

	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.StudentID)
	assert.Equal(t, int64(7), got.TeacherID)
	assert.Equal(t, int64(3), *got.SubjectID)
	assert.Equal(t, "grammar", *got.Notes)
	assert.Nil(t, got.MeetingLink)
	assert.True(t, lessonAt.Equal(got.Date))
	assert.True(t, createdAt.Equal(got.CreatedAt))
	assert.Equal(t, 2000, got.Price)
	assert.Equal(t, domain.StatusPendingPayment, got.Status)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestCreateRejectsSecondActiveBookingAtSameMoment(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, pending(1, 7, lessonAt))
	require.NoError(t, err)

	_, err = repo.Create(ctx, pending(2, 7, lessonAt))
	assert.ErrorIs(t, err, booking.ErrSlotNotAvailable)

	// another teacher at the same moment is fine
	_, err = repo.Create(ctx, pending(2, 8, lessonAt))
	assert.NoError(t, err)
}

func TestCancelledBookingFreesTheMoment(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, pending(1, 7, lessonAt))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.StatusPendingPayment, domain.StatusCancelled, createdAt))

	exists, err := repo.ExistsActiveAt(ctx, 7, lessonAt)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, pending(2, 7, lessonAt))
	assert.NoError(t, err)

	exists, err = repo.ExistsActiveAt(ctx, 7, lessonAt)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateStatusIsConditional(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	b, err := repo.Create(ctx, pending(1, 7, lessonAt))
	require.NoError(t, err)

	later := createdAt.Add(5 * time.Minute)
	require.NoError(t, repo.UpdateStatus(ctx, b.ID, domain.StatusPendingPayment, domain.StatusConfirmed, later))

	err = repo.UpdateStatus(ctx, b.ID, domain.StatusPendingPayment, domain.StatusExpired, later)
	assert.ErrorIs(t, err, booking.ErrStatusChanged)

	err = repo.UpdateStatus(ctx, b.ID+1, domain.StatusPendingPayment, domain.StatusExpired, later)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.True(t, later.Equal(got.UpdatedAt))
}

func TestGetActiveByTeacherWindow(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	inside, err := repo.Create(ctx, pending(1, 7, lessonAt))
	require.NoError(t, err)
	_, err = repo.Create(ctx, pending(1, 7, lessonAt.AddDate(0, 0, 30)))
	require.NoError(t, err)
	cancelled, err := repo.Create(ctx, pending(2, 7, lessonAt.Add(2*time.Hour)))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, cancelled.ID, domain.StatusPendingPayment, domain.StatusCancelled, createdAt))
	_, err = repo.Create(ctx, pending(1, 8, lessonAt))
	require.NoError(t, err)

	got, err := repo.GetActiveByTeacher(ctx, 7, lessonAt.AddDate(0, 0, -1), lessonAt.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestStudentAndTeacherListings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, pending(1, 7, lessonAt))
	require.NoError(t, err)
	b, err := repo.Create(ctx, pending(1, 7, lessonAt.Add(24*time.Hour)))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, b.ID, domain.StatusPendingPayment, domain.StatusExpired, createdAt))

	all, err := repo.GetByStudentID(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest lesson first")

	onlyExpired, err := repo.GetByStudentID(ctx, 1, ptr.Ptr(domain.StatusExpired))
	require.NoError(t, err)
	require.Len(t, onlyExpired, 1)

	active, err := repo.GetByTeacherWithFilter(ctx, domain.TeacherBookingsFilter{TeacherID: 7})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	withInactive, err := repo.GetByTeacherWithFilter(ctx, domain.TeacherBookingsFilter{TeacherID: 7, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, withInactive, 2)

	from := lessonAt.Add(time.Hour)
	ranged, err := repo.GetByTeacherWithFilter(ctx, domain.TeacherBookingsFilter{TeacherID: 7, From: &from, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, b.ID, ranged[0].ID)
}

func TestSetMeetingLink(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	b, err := repo.Create(ctx, pending(1, 7, lessonAt))
	require.NoError(t, err)

	require.NoError(t, repo.SetMeetingLink(ctx, b.ID, "https://meet.example/abc", createdAt))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MeetingLink)
	assert.Equal(t, "https://meet.example/abc", *got.MeetingLink)

	assert.ErrorIs(t, repo.SetMeetingLink(ctx, b.ID+1, "x", createdAt), booking.ErrBookingNotFound)
}

func TestCreateInsideRolledBackTransaction(t *testing.T) {
	db := testsupport.MustOpenSQLite(t)
	repo := booking.NewRepository(db, testsupport.SQLiteBuilder())
	tx := txmanager.NewTransactionManager(db, sqlbuilder.DialectSQLite)
	ctx := context.Background()

	err := tx.Do(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, pending(1, 7, lessonAt)); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	exists, err := repo.ExistsActiveAt(ctx, 7, lessonAt)
	require.NoError(t, err)
	assert.False(t, exists)
}
