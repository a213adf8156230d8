package set_availability

import (
	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/availability/models"
)

// SetAvailabilityRequest HTTP request model.
// Ключи weeklySlots: Monday..Sunday с заглавной буквы, другое написание отклоняется при декодировании.
type SetAvailabilityRequest struct {
	WeeklySlots map[domain.Weekday][]models.SlotInput `json:"weeklySlots"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *SetAvailabilityRequest) ToServiceRequest(teacherID, requesterID int64) *models.SetAvailabilityRequest {
	slots := r.WeeklySlots
	if slots == nil {
		slots = map[domain.Weekday][]models.SlotInput{}
	}

	return &models.SetAvailabilityRequest{
		RequesterID: requesterID,
		TeacherID:   teacherID,
		WeeklySlots: slots,
	}
}
