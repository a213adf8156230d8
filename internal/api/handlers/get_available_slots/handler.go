package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LessonBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-LessonBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTeacherID = "некорректный ID преподавателя"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/teachers/{teacherId}/available-slots
// Публичный endpoint: свободные слоты на ближайшие дни начиная с завтрашнего.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teacherID, err := handlers.PathInt64(r, "teacherId")
	if err != nil {
		h.logger.Warn("GET /teachers/{id}/available-slots - Invalid teacher ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{TeacherID: teacherID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /teachers/{id}/available-slots - Invalid input: teacher_id=%d, error=%v", teacherID, err)
			handlers.RespondBadRequest(w, msgInvalidTeacherID)

		default:
			h.logger.Error("GET /teachers/{id}/available-slots - Failed to get slots: teacher_id=%d, error=%v",
				teacherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /teachers/{id}/available-slots - Slots retrieved: teacher_id=%d, slots_count=%d",
		teacherID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
