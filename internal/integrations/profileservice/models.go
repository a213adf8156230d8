package profileservice

import "github.com/m04kA/SMC-LessonBookingService/internal/domain"

// Teacher модель преподавателя из ProfileService
type Teacher struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	HourlyRate *int   `json:"hourly_rate,omitempty"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *Teacher) toDomain() *domain.Teacher {
	return &domain.Teacher{
		ID:         t.ID,
		Name:       t.Name,
		HourlyRate: t.HourlyRate,
	}
}
