package domain

import (
	"time"

	"github.com/m04kA/SMC-LessonBookingService/pkg/types"
)

// BookingSlotCandidate конкретный слот, полученный из шаблона на определенную дату
type BookingSlotCandidate struct {
	TeacherID       int64
	Date            time.Time // календарная дата (00:00 в часовом поясе расписания)
	StartTime       types.TimeString
	DurationMinutes int
}

// At момент начала: дата + время, секунды и миллисекунды нулевые
func (c BookingSlotCandidate) At() time.Time {
	return c.StartTime.On(c.Date)
}

// End момент окончания
func (c BookingSlotCandidate) End() time.Time {
	return c.At().Add(time.Duration(c.DurationMinutes) * time.Minute)
}
