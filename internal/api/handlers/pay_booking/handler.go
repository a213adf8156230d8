package pay_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LessonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LessonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	payBooking "github.com/m04kA/SMC-LessonBookingService/internal/usecase/pay_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "оплатить бронирование может только его ученик"
	msgExpired          = "время на оплату истекло, бронирование аннулировано"
)

type Handler struct {
	useCase PayBookingUseCase
	logger  Logger
}

func NewHandler(useCase PayBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/pay
// Платеж симулируется: успешный вызов сразу подтверждает бронирование.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/pay - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	studentID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/pay - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &payBooking.Request{
		BookingID: bookingID,
		StudentID: studentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, payBooking.ErrBookingExpired):
			h.logger.Warn("POST /bookings/{id}/pay - Payment window elapsed: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusGone, msgExpired)

		case errors.Is(err, payBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/pay - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payBooking.ErrNotOwner):
			h.logger.Warn("POST /bookings/{id}/pay - Access denied: booking_id=%d, user_id=%d", bookingID, studentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/pay - Invalid state: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInvalidState(w, err)

		default:
			h.logger.Error("POST /bookings/{id}/pay - Failed to pay booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/pay - Booking confirmed: booking_id=%d, student_id=%d", bookingID, studentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
