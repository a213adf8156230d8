package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ExistsActiveAt(ctx context.Context, teacherID int64, at time.Time) (bool, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTeacher(ctx context.Context, teacherID int64) (*domain.Teacher, error)
}

// PriceCalculator расчет стоимости урока
type PriceCalculator interface {
	Price(durationMinutes int, teacher *domain.Teacher) int
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker мьютекс по ключу
type KeyLocker interface {
	Lock(key string) (unlock func())
}

// Notifier публикация событий бронирований
type Notifier interface {
	Notify(ctx context.Context, event notifier.Event, booking *domain.Booking)
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
