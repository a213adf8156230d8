package slots

import (
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// Policy способ сравнения кандидата с существующим бронированием
type Policy string

const (
	// PolicyStartProximity кандидат занят, если начало бронирования ближе tolerance
	// к началу кандидата. Длительности не учитываются: урок 14:00-15:30 не скрывает
	// слот 15:00.
	PolicyStartProximity Policy = "start_proximity"

	// PolicyIntervalOverlap кандидат занят, если интервалы [start, end) пересекаются.
	// Соприкосновение границ пересечением не считается.
	PolicyIntervalOverlap Policy = "interval_overlap"
)

// ParsePolicy значение из конфигурации; пустая строка = start_proximity
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStartProximity:
		return PolicyStartProximity, nil
	case PolicyIntervalOverlap:
		return PolicyIntervalOverlap, nil
	default:
		return "", fmt.Errorf("slots: unknown collision policy %q", s)
	}
}

// Filter отсеивает кандидатов, занятых блокирующими бронированиями
type Filter struct {
	policy    Policy
	tolerance time.Duration
}

// NewFilter tolerance <= 0 заменяется на domain.DefaultCollisionTolerance
func NewFilter(policy Policy, tolerance time.Duration) *Filter {
	if tolerance <= 0 {
		tolerance = domain.DefaultCollisionTolerance
	}
	if policy == "" {
		policy = PolicyStartProximity
	}
	return &Filter{policy: policy, tolerance: tolerance}
}

// Bookable возвращает кандидатов, которые ни с одним блокирующим бронированием не конфликтуют.
// Бронирования в неблокирующих статусах игнорируются.
func (f *Filter) Bookable(candidates iter.Seq[domain.BookingSlotCandidate], bookings []*domain.Booking) []domain.BookingSlotCandidate {
	blocking := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsBlocking() {
			blocking = append(blocking, b)
		}
	}

	result := make([]domain.BookingSlotCandidate, 0)
	for candidate := range candidates {
		if !f.collides(candidate, blocking) {
			result = append(result, candidate)
		}
	}
	return result
}

func (f *Filter) collides(candidate domain.BookingSlotCandidate, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if f.conflicts(candidate, b) {
			return true
		}
	}
	return false
}

func (f *Filter) conflicts(candidate domain.BookingSlotCandidate, b *domain.Booking) bool {
	switch f.policy {
	case PolicyIntervalOverlap:
		return b.Date.Before(candidate.End()) && b.End().After(candidate.At())
	default:
		diff := b.Date.Sub(candidate.At())
		if diff < 0 {
			diff = -diff
		}
		return diff < f.tolerance
	}
}
