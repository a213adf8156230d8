package models

import (
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/pkg/types"
)

// SlotInput слот расписания во входящем запросе.
// DurationMinutes == nil или 0 означает длительность по умолчанию.
type SlotInput struct {
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
}

// SetAvailabilityRequest запрос на замену расписания
type SetAvailabilityRequest struct {
	RequesterID int64
	TeacherID   int64
	WeeklySlots map[domain.Weekday][]SlotInput
}

// SlotResponse слот расписания в ответе
type SlotResponse struct {
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
}

// AvailabilityResponse расписание преподавателя
type AvailabilityResponse struct {
	TeacherID   int64                             `json:"teacherId"`
	WeeklySlots map[domain.Weekday][]SlotResponse `json:"weeklySlots"`
	UpdatedAt   *time.Time                        `json:"updatedAt,omitempty"`
}

// ToDomain собирает шаблон; длительность по умолчанию подставляется явно
func (r *SetAvailabilityRequest) ToDomain(updatedAt time.Time) *domain.AvailabilityTemplate {
	slots := make(domain.WeeklySlots, len(r.WeeklySlots))
	for day, inputs := range r.WeeklySlots {
		for _, in := range inputs {
			tpl := domain.SlotTemplate{StartTime: in.StartTime}
			if in.DurationMinutes != nil {
				tpl.DurationMinutes = *in.DurationMinutes
			}
			tpl.DurationMinutes = tpl.EffectiveDuration()
			slots[day] = append(slots[day], tpl)
		}
	}
	return domain.NewAvailabilityTemplate(r.TeacherID, slots, updatedAt)
}

// FromDomain конвертирует шаблон в ответ
func FromDomain(tpl *domain.AvailabilityTemplate) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		TeacherID:   tpl.TeacherID,
		WeeklySlots: make(map[domain.Weekday][]SlotResponse, len(tpl.WeeklySlots)),
	}
	if !tpl.UpdatedAt.IsZero() {
		updatedAt := tpl.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	for _, day := range domain.Weekdays {
		for _, slot := range tpl.SlotsFor(day) {
			resp.WeeklySlots[day] = append(resp.WeeklySlots[day], SlotResponse{
				StartTime:       slot.StartTime,
				DurationMinutes: slot.EffectiveDuration(),
			})
		}
	}

	return resp
}
