package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusExpired        BookingStatus = "expired"
)

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	switch status {
	case StatusPendingPayment, StatusConfirmed, StatusCancelled, StatusExpired:
		return status, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Booking represents a lesson booking between a student and a teacher
type Booking struct {
	ID              int64
	StudentID       int64
	TeacherID       int64
	SubjectID       *int64
	Date            time.Time // момент начала урока
	DurationMinutes int
	Notes           *string
	Price           int // фиксируется при создании
	Status          BookingStatus
	MeetingLink     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking occupies its slot
// (pending payment or confirmed)
func (b *Booking) IsBlocking() bool {
	return b.Status.IsBlocking()
}

// IsBlocking статус занимает слот
func (s BookingStatus) IsBlocking() bool {
	return s == StatusPendingPayment || s == StatusConfirmed
}

// IsTerminal из статуса нет переходов
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// End момент окончания урока
func (b *Booking) End() time.Time {
	return b.Date.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// IsOwnedByStudent returns true if userID is the booking's student
func (b *Booking) IsOwnedByStudent(userID int64) bool {
	return b.StudentID == userID
}

// IsParticipant returns true if userID is the booking's student or teacher
func (b *Booking) IsParticipant(userID int64) bool {
	return b.StudentID == userID || b.TeacherID == userID
}

// PaymentWindowElapsed true, если с момента создания прошло строго больше window.
// Ровно window еще считается внутри окна.
func (b *Booking) PaymentWindowElapsed(now time.Time, window time.Duration) bool {
	return now.Sub(b.CreatedAt) > window
}

// TeacherBookingsFilter фильтр для получения бронирований преподавателя
type TeacherBookingsFilter struct {
	TeacherID       int64          // Обязательный параметр
	From            *time.Time     // Начало периода (включительно)
	To              *time.Time     // Конец периода (не включительно)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать отмененные и истекшие
}
