package get_available_slots

import (
	"context"
	"iter"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveByTeacher активные бронирования преподавателя с началом в [from, to)
	GetActiveByTeacher(ctx context.Context, teacherID int64, from, to time.Time) ([]*domain.Booking, error)
}

// AvailabilityProvider источник недельного расписания
type AvailabilityProvider interface {
	Template(ctx context.Context, teacherID int64) (*domain.AvailabilityTemplate, error)
}

// SlotFilter отсеивает занятые кандидаты
type SlotFilter interface {
	Bookable(candidates iter.Seq[domain.BookingSlotCandidate], bookings []*domain.Booking) []domain.BookingSlotCandidate
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
