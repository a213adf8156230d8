package notifier

import (
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// Event тип события, он же routing key
type Event string

const (
	EventBookingCreated   Event = "booking.created"
	EventBookingConfirmed Event = "booking.confirmed"
	EventBookingCancelled Event = "booking.cancelled"
	EventBookingExpired   Event = "booking.expired"
)

// BookingEvent тело сообщения
type BookingEvent struct {
	EventID         string    `json:"event_id"`
	Type            Event     `json:"type"`
	BookingID       int64     `json:"booking_id"`
	StudentID       int64     `json:"student_id"`
	TeacherID       int64     `json:"teacher_id"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           int       `json:"price"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func newBookingEvent(id string, event Event, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:         id,
		Type:            event,
		BookingID:       b.ID,
		StudentID:       b.StudentID,
		TeacherID:       b.TeacherID,
		Date:            b.Date.UTC(),
		DurationMinutes: b.DurationMinutes,
		Price:           b.Price,
		Status:          string(b.Status),
		OccurredAt:      at.UTC(),
	}
}
