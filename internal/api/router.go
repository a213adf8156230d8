package api

import (
	"net/http"

	"github.com/gorilla/mux"

	cancelBookingHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/get_booking"
	getTeacherBookingsHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/get_teacher_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/get_user_bookings"
	payBookingHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/pay_booking"
	setAvailabilityHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/set_availability"
	setMeetingLinkHandler "github.com/m04kA/SMC-LessonBookingService/internal/api/handlers/set_meeting_link"
	"github.com/m04kA/SMC-LessonBookingService/internal/api/middleware"
	createBookingUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/get_available_slots"
	payBookingUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/pay_booking"
)

// BookingService то, что роутеру нужно от сервиса бронирований
type BookingService interface {
	getBookingHandler.BookingService
	cancelBookingHandler.BookingService
	setMeetingLinkHandler.BookingService
	getUserBookingsHandler.BookingService
	getTeacherBookingsHandler.BookingService
}

type AvailabilityService interface {
	getAvailabilityHandler.AvailabilityService
	setAvailabilityHandler.AvailabilityService
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dependencies все, из чего собирается HTTP API
type Dependencies struct {
	CreateBooking     *createBookingUC.UseCase
	PayBooking        *payBookingUC.UseCase
	GetAvailableSlots *getAvailableSlotsUC.UseCase
	Bookings          BookingService
	Availability      AvailabilityService

	// Metrics nil - метрики выключены
	Metrics     middleware.HTTPObserver
	MetricsPath string
	MetricsHTTP http.Handler

	Logger Logger
}

// NewRouter собирает роутер /api/v1
func NewRouter(deps Dependencies) *mux.Router {
	log := deps.Logger

	createBooking := createBookingHandler.NewHandler(deps.CreateBooking, log)
	payBooking := payBookingHandler.NewHandler(deps.PayBooking, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(deps.GetAvailableSlots, log)
	getBooking := getBookingHandler.NewHandler(deps.Bookings, log)
	cancelBooking := cancelBookingHandler.NewHandler(deps.Bookings, log)
	setMeetingLink := setMeetingLinkHandler.NewHandler(deps.Bookings, log)
	getUserBookings := getUserBookingsHandler.NewHandler(deps.Bookings, log)
	getTeacherBookings := getTeacherBookingsHandler.NewHandler(deps.Bookings, log)
	getAvailability := getAvailabilityHandler.NewHandler(deps.Availability, log)
	setAvailability := setAvailabilityHandler.NewHandler(deps.Availability, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	if deps.MetricsHTTP != nil && deps.MetricsPath != "" {
		r.Handle(deps.MetricsPath, deps.MetricsHTTP).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/teachers/{teacherId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/teachers/{teacherId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание преподавателя ---
	protected.HandleFunc("/teachers/{teacherId}/availability", setAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/teachers/{teacherId}/bookings", getTeacherBookings.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/pay", payBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/meeting-link", setMeetingLink.Handle).Methods(http.MethodPatch)

	// История бронирований ученика
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	return r
}
