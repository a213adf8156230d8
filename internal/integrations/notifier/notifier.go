package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

const defaultPublishTimeout = 3 * time.Second

// Notifier рассылает события жизненного цикла бронирований.
// Ошибка доставки не влияет на результат операции: она только логируется.
type Notifier struct {
	publisher Publisher
	counter   EventCounter
	log       Logger
	timeout   time.Duration
}

// New создает нотификатор. publisher и counter могут быть nil:
// тогда события только логируются.
func New(publisher Publisher, counter EventCounter, log Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		counter:   counter,
		log:       log,
		timeout:   defaultPublishTimeout,
	}
}

// Notify публикует событие. Вызывать после фиксации транзакции.
func (n *Notifier) Notify(ctx context.Context, event Event, booking *domain.Booking) {
	if n.counter != nil {
		n.counter.IncBookingEvent(string(event))
	}

	if n.publisher == nil {
		n.log.Info("Notify: %s booking=%d (publisher disabled)", event, booking.ID)
		return
	}

	// запрос мог уже завершиться, событие все равно отправляем
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	id := uuid.NewString()
	msg := newBookingEvent(id, event, booking, time.Now())

	if err := n.publisher.PublishJSON(pubCtx, string(event), id, msg); err != nil {
		n.log.Error("Notify: failed to publish %s booking=%d event=%s: %v", event, booking.ID, id, err)
		return
	}

	n.log.Info("Notify: published %s booking=%d event=%s", event, booking.ID, id)
}
