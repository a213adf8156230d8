package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
	"github.com/m04kA/SMC-LessonBookingService/pkg/types"
)

var updatedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func slot(start string, duration int) domain.SlotTemplate {
	return domain.SlotTemplate{StartTime: types.MustTimeString(start), DurationMinutes: duration}
}

func TestGetMissingAvailability(t *testing.T) {
	repo := availability.NewRepository(testsupport.MustOpenSQLite(t), testsupport.SQLiteBuilder())

	_, err := repo.Get(context.Background(), 7)
	assert.ErrorIs(t, err, availability.ErrAvailabilityNotFound)
}

func TestReplaceAndGetKeepsOrder(t *testing.T) {
	repo := availability.NewRepository(testsupport.MustOpenSQLite(t), testsupport.SQLiteBuilder())
	ctx := context.Background()

	tpl := domain.NewAvailabilityTemplate(7, domain.WeeklySlots{
		domain.Monday:   {slot("14:00", 60), slot("09:00", 45)},
		domain.Thursday: {slot("18:30", 90)},
	}, updatedAt)

	require.NoError(t, repo.Replace(ctx, tpl))

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.TeacherID)
	assert.True(t, updatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, []domain.SlotTemplate{slot("14:00", 60), slot("09:00", 45)}, got.SlotsFor(domain.Monday))
	assert.Equal(t, []domain.SlotTemplate{slot("18:30", 90)}, got.SlotsFor(domain.Thursday))
	assert.Empty(t, got.SlotsFor(domain.Sunday))
	assert.Equal(t, 3, got.SlotCount())
}

func TestReplaceOverwritesWholeTemplate(t *testing.T) {
	repo := availability.NewRepository(testsupport.MustOpenSQLite(t), testsupport.SQLiteBuilder())
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, domain.NewAvailabilityTemplate(7, domain.WeeklySlots{
		domain.Monday: {slot("14:00", 60)},
	}, updatedAt)))

	later := updatedAt.Add(time.Hour)
	require.NoError(t, repo.Replace(ctx, domain.NewAvailabilityTemplate(7, domain.WeeklySlots{
		domain.Friday: {slot("10:00", 60)},
	}, later)))

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got.SlotsFor(domain.Monday))
	assert.Len(t, got.SlotsFor(domain.Friday), 1)
	assert.True(t, later.Equal(got.UpdatedAt))

	// пустое расписание сохраняется и отличается от отсутствующего
	require.NoError(t, repo.Replace(ctx, domain.EmptyAvailability(7)))
	got, err = repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestListTeacherIDs(t *testing.T) {
	repo := availability.NewRepository(testsupport.MustOpenSQLite(t), testsupport.SQLiteBuilder())
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, domain.NewAvailabilityTemplate(9, nil, updatedAt)))
	require.NoError(t, repo.Replace(ctx, domain.NewAvailabilityTemplate(3, nil, updatedAt)))

	ids, err := repo.ListTeacherIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 9}, ids)
}
