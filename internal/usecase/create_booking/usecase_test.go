package create_booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
	"github.com/m04kA/SMC-LessonBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-LessonBookingService/pkg/keylock"
	"github.com/m04kA/SMC-LessonBookingService/pkg/ptr"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/txmanager"
)

// losingRepo ведет себя как postgres, когда параллельная сериализуемая транзакция уже вставила бронь
type losingRepo struct {
	existsErr error
	createErr error
}

func (r losingRepo) ExistsActiveAt(context.Context, int64, time.Time) (bool, error) {
	return false, r.existsErr
}

func (r losingRepo) Create(context.Context, *domain.Booking) (*domain.Booking, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &domain.Booking{ID: 1, Status: domain.StatusPendingPayment}, nil
}

// failingCommit выполняет fn без БД и возвращает ошибку фиксации
type failingCommit struct {
	err error
}

func (f failingCommit) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.err
}

var (
	now      = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	lessonAt = time.Date(2025, 3, 17, 14, 0, 0, 0, time.UTC)
)

type fakeProfiles map[int64]*domain.Teacher

func (f fakeProfiles) GetTeacher(_ context.Context, id int64) (*domain.Teacher, error) {
	if id == 500 {
		return nil, errors.New("connection refused")
	}
	t, ok := f[id]
	if !ok {
		return nil, profileservice.ErrTeacherNotFound
	}
	return t, nil
}

type fixture struct {
	uc       *create_booking.UseCase
	repo     *bookingRepo.Repository
	notifier *testsupport.RecordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testsupport.MustOpenSQLite(t)
	repo := bookingRepo.NewRepository(db, testsupport.SQLiteBuilder())
	rec := &testsupport.RecordingNotifier{}

	uc := create_booking.NewUseCase(
		repo,
		fakeProfiles{
			7: {ID: 7, Name: "Anna"},
			8: {ID: 8, Name: "Ivan", HourlyRate: ptr.Ptr(3000)},
		},
		pricing.NewCalculator(domain.DefaultHourlyRate),
		txmanager.NewTransactionManager(db, sqlbuilder.DialectSQLite),
		keylock.New(),
		rec,
		testsupport.NopLogger{},
	).WithTimeProvider(&testsupport.FixedClock{T: now})

	return &fixture{uc: uc, repo: repo, notifier: rec}
}

func TestCreateBookingPendingWithLockedPrice(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &create_booking.Request{
		StudentID:       1,
		TeacherID:       7,
		Date:            lessonAt,
		DurationMinutes: 90,
		SubjectID:       ptr.Ptr(int64(4)),
		Notes:           ptr.Ptr("past simple"),
	})
	require.NoError(t, err)

	assert.Equal(t, "pending_payment", resp.Status)
	assert.Equal(t, 3000, resp.Price)
	assert.True(t, now.Equal(resp.CreatedAt))
	assert.True(t, lessonAt.Equal(resp.Date))

	stored, err := f.repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000, stored.Price)
	assert.Equal(t, int64(4), *stored.SubjectID)

	assert.Equal(t, []testsupport.RecordedEvent{
		{Event: notifier.EventBookingCreated, BookingID: resp.ID, Status: domain.StatusPendingPayment},
	}, f.notifier.Events())
}

func TestCreateBookingPricing(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &create_booking.Request{
		StudentID: 1, TeacherID: 7, Date: lessonAt, DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500, resp.Price)

	resp, err = f.uc.Execute(context.Background(), &create_booking.Request{
		StudentID: 1, TeacherID: 8, Date: lessonAt,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 3000, resp.Price)
}

func TestCreateBookingExactCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &create_booking.Request{StudentID: 1, TeacherID: 7, Date: lessonAt})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &create_booking.Request{StudentID: 2, TeacherID: 7, Date: lessonAt})
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)

	// на создании сравнение точное: 10 минут спустя бронировать можно
	_, err = f.uc.Execute(ctx, &create_booking.Request{StudentID: 2, TeacherID: 7, Date: lessonAt.Add(10 * time.Minute)})
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(student int64) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &create_booking.Request{
				StudentID: student, TeacherID: 7, Date: lessonAt,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, create_booking.ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	active, err := f.repo.GetActiveByTeacher(context.Background(), 7, lessonAt.Add(-time.Hour), lessonAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCreateBookingErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *create_booking.Request
		want error
	}{
		{"unknown teacher", &create_booking.Request{StudentID: 1, TeacherID: 404, Date: lessonAt}, create_booking.ErrTeacherNotFound},
		{"profile service down", &create_booking.Request{StudentID: 1, TeacherID: 500, Date: lessonAt}, create_booking.ErrInternal},
		{"past date", &create_booking.Request{StudentID: 1, TeacherID: 7, Date: now.Add(-time.Hour)}, create_booking.ErrInvalidDate},
		{"no student", &create_booking.Request{TeacherID: 7, Date: lessonAt}, create_booking.ErrInvalidInput},
		{"no date", &create_booking.Request{StudentID: 1, TeacherID: 7}, create_booking.ErrInvalidInput},
		{"bad duration", &create_booking.Request{StudentID: 1, TeacherID: 7, Date: lessonAt, DurationMinutes: 1000}, create_booking.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, f.notifier.Events())
}

func TestCreateBookingSerializationConflictIsSlotUnavailable(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}
	noTx := failingCommit{}

	tests := []struct {
		name string
		repo losingRepo
		tx   create_booking.TransactionManager
	}{
		{
			name: "check",
			repo: losingRepo{existsErr: fmt.Errorf("%w: %v", bookingRepo.ErrSerializationFailure, serialization)},
			tx:   noTx,
		},
		{
			name: "insert",
			repo: losingRepo{createErr: fmt.Errorf("%w: %v", bookingRepo.ErrSerializationFailure, serialization)},
			tx:   noTx,
		},
		{
			name: "commit",
			tx:   failingCommit{err: fmt.Errorf("%w: %w", txmanager.ErrCommitTx, serialization)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &testsupport.RecordingNotifier{}
			uc := create_booking.NewUseCase(
				tt.repo,
				fakeProfiles{7: {ID: 7, Name: "Anna"}},
				pricing.NewCalculator(domain.DefaultHourlyRate),
				tt.tx,
				keylock.New(),
				rec,
				testsupport.NopLogger{},
			).WithTimeProvider(&testsupport.FixedClock{T: now})

			_, err := uc.Execute(context.Background(), &create_booking.Request{StudentID: 2, TeacherID: 7, Date: lessonAt})
			assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)
			assert.NotErrorIs(t, err, create_booking.ErrInternal)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestCreateBookingTruncatesToMinute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, &create_booking.Request{StudentID: 1, TeacherID: 7, Date: lessonAt.Add(30 * time.Second)})
	require.NoError(t, err)
	assert.True(t, lessonAt.Equal(resp.Date))

	_, err = f.uc.Execute(ctx, &create_booking.Request{StudentID: 2, TeacherID: 7, Date: lessonAt.Add(45 * time.Second)})
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)
}
