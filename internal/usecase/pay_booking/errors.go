package pay_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("pay_booking: booking not found")

	// ErrNotOwner возвращается, когда оплачивает не ученик бронирования
	ErrNotOwner = errors.New("pay_booking: booking belongs to another student")

	// ErrBookingExpired возвращается, когда окно оплаты истекло; бронирование уже переведено в expired
	ErrBookingExpired = errors.New("pay_booking: payment window has elapsed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("pay_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("pay_booking: internal error")
)
