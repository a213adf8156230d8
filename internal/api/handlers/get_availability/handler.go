package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-LessonBookingService/internal/api/handlers"
)

const (
	msgInvalidTeacherID = "некорректный ID преподавателя"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/teachers/{teacherId}/availability
// Публичный endpoint. Если расписание не задано, отдается пустое.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teacherID, err := handlers.PathInt64(r, "teacherId")
	if err != nil {
		h.logger.Warn("GET /teachers/{id}/availability - Invalid teacher ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	result, err := h.service.GetAvailability(r.Context(), teacherID)
	if err != nil {
		h.logger.Error("GET /teachers/{id}/availability - Failed to get availability: teacher_id=%d, error=%v",
			teacherID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /teachers/{id}/availability - Availability retrieved: teacher_id=%d", teacherID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
