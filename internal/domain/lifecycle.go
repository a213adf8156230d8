package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStatus строка не является статусом бронирования
	ErrUnknownStatus = errors.New("domain: unknown booking status")

	// ErrInvalidState переход из текущего статуса не разрешен
	ErrInvalidState = errors.New("domain: invalid booking state")
)

// InvalidStateError несет текущий статус бронирования.
// errors.Is(err, ErrInvalidState) == true.
type InvalidStateError struct {
	Status BookingStatus
	Target BookingStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("domain: cannot move booking from %s to %s", e.Status, e.Target)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// transitions допустимые переходы:
//
//	pending_payment -> confirmed | expired | cancelled
//	confirmed       -> cancelled
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusExpired, StatusCancelled},
	StatusConfirmed:      {StatusCancelled},
}

// CanTransition проверяет переход по таблице состояний
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition возвращает *InvalidStateError, если переход запрещен
func CheckTransition(from, to BookingStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return &InvalidStateError{Status: from, Target: to}
}
