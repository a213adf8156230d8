package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-LessonBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model. Ученик берется из X-User-ID.
type CreateBookingRequest struct {
	TeacherID       int64   `json:"teacherId"`
	Date            string  `json:"date"` // RFC 3339: "2025-03-17T14:00:00Z"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	SubjectID       *int64  `json:"subjectId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(studentID int64) (*createBooking.Request, error) {
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		StudentID:       studentID,
		TeacherID:       r.TeacherID,
		Date:            date,
		DurationMinutes: r.DurationMinutes,
		SubjectID:       r.SubjectID,
		Notes:           r.Notes,
	}, nil
}
