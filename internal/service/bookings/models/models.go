package models

import (
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	BookingID   int64
	RequesterID int64
}

// SetMeetingLinkRequest запрос на установку ссылки на урок
type SetMeetingLinkRequest struct {
	BookingID   int64
	RequesterID int64
	MeetingLink string
}

// GetStudentBookingsRequest запрос на получение бронирований ученика
type GetStudentBookingsRequest struct {
	RequesterID int64
	StudentID   int64
	Status      *string
}

// GetTeacherBookingsRequest запрос на получение бронирований преподавателя
type GetTeacherBookingsRequest struct {
	RequesterID     int64
	TeacherID       int64
	From            *time.Time // Начало периода (включительно, опционально)
	To              *time.Time // Конец периода (не включительно, опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить отмененные и истекшие
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTeacherBookingsRequest) ToDomainFilter() (domain.TeacherBookingsFilter, error) {
	filter := domain.TeacherBookingsFilter{
		TeacherID:       r.TeacherID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"studentId"`
	TeacherID       int64     `json:"teacherId"`
	SubjectID       *int64    `json:"subjectId,omitempty"`
	Date            time.Time `json:"date"` // RFC 3339, UTC
	DurationMinutes int       `json:"durationMinutes"`
	Notes           *string   `json:"notes,omitempty"`
	Price           int       `json:"price"`
	Status          string    `json:"status"`
	MeetingLink     *string   `json:"meetingLink,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		StudentID:       b.StudentID,
		TeacherID:       b.TeacherID,
		SubjectID:       b.SubjectID,
		Date:            b.Date.UTC(),
		DurationMinutes: b.DurationMinutes,
		Notes:           b.Notes,
		Price:           b.Price,
		Status:          string(b.Status),
		MeetingLink:     b.MeetingLink,
		CreatedAt:       b.CreatedAt.UTC(),
		UpdatedAt:       b.UpdatedAt.UTC(),
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
