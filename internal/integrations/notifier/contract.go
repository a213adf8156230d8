package notifier

import "context"

// Publisher транспорт событий (pkg/mq.Publisher)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, messageID string, v any) error
}

// EventCounter счетчик событий (pkg/metrics.Metrics)
type EventCounter interface {
	IncBookingEvent(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
