package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
)

type published struct {
	key string
	id  string
	msg notifier.BookingEvent
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, key string, messageID string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{key: key, id: messageID, msg: v.(notifier.BookingEvent)})
	return nil
}

type fakeCounter map[string]int

func (c fakeCounter) IncBookingEvent(event string) { c[event]++ }

func booking() *domain.Booking {
	return &domain.Booking{
		ID:              42,
		StudentID:       1,
		TeacherID:       7,
		Date:            time.Date(2025, 3, 17, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Price:           2000,
		Status:          domain.StatusConfirmed,
	}
}

func TestNotifyPublishesWithEventID(t *testing.T) {
	pub := &fakePublisher{}
	counter := fakeCounter{}
	n := notifier.New(pub, counter, testsupport.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, notifier.EventBookingConfirmed, booking())

	require.Len(t, pub.sent, 1)
	sent := pub.sent[0]
	assert.Equal(t, "booking.confirmed", sent.key)
	_, err := uuid.Parse(sent.id)
	assert.NoError(t, err)
	assert.Equal(t, sent.id, sent.msg.EventID)
	assert.Equal(t, int64(42), sent.msg.BookingID)
	assert.Equal(t, "confirmed", sent.msg.Status)
	assert.Equal(t, 1, counter["booking.confirmed"])
}

func TestNotifySwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	counter := fakeCounter{}
	n := notifier.New(pub, counter, testsupport.NopLogger{})

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), notifier.EventBookingCreated, booking())
	})
	assert.Equal(t, 1, counter["booking.created"])
}

func TestNotifyWithoutPublisher(t *testing.T) {
	n := notifier.New(nil, nil, testsupport.NopLogger{})
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), notifier.EventBookingExpired, booking())
	})
}
