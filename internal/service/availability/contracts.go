package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// AvailabilityRepository интерфейс хранилища расписаний
type AvailabilityRepository interface {
	Replace(ctx context.Context, tpl *domain.AvailabilityTemplate) error
	Get(ctx context.Context, teacherID int64) (*domain.AvailabilityTemplate, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker мьютекс по ключу
type KeyLocker interface {
	Lock(key string) (unlock func())
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider текущее время UTC
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
