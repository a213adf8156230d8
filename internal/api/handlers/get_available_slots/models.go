package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-LessonBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TeacherID int64           `json:"teacherId"`
	Timezone  string          `json:"timezone"`
	From      string          `json:"from"` // YYYY-MM-DD, включительно
	To        string          `json:"to"`   // YYYY-MM-DD, не включительно
	Slots     []AvailableSlot `json:"slots"`
}

// AvailableSlot модель свободного слота.
// StartsAt передается в POST /bookings как date без изменений.
type AvailableSlot struct {
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
	StartsAt        time.Time `json:"startsAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			StartsAt:        slot.StartsAt.UTC(),
		}
	}

	return &AvailableSlotsResponse{
		TeacherID: resp.TeacherID,
		Timezone:  resp.Timezone,
		From:      resp.From.Format(domain.DateFormat),
		To:        resp.To.Format(domain.DateFormat),
		Slots:     slots,
	}
}
