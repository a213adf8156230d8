package testsupport

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
)

// RecordedEvent событие, перехваченное RecordingNotifier
type RecordedEvent struct {
	Event     notifier.Event
	BookingID int64
	Status    domain.BookingStatus
}

// RecordingNotifier запоминает события вместо публикации
type RecordingNotifier struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func (n *RecordingNotifier) Notify(_ context.Context, event notifier.Event, booking *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, RecordedEvent{Event: event, BookingID: booking.ID, Status: booking.Status})
}

// Events копия перехваченных событий
func (n *RecordingNotifier) Events() []RecordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]RecordedEvent(nil), n.events...)
}
