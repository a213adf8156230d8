package pay_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/bookings/models"
)

// UseCase use case оплаты бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	txManager     TransactionManager
	locker        KeyLocker
	notifier      Notifier
	timeProvider  TimeProvider
	paymentWindow time.Duration
	logger        Logger
}

// NewUseCase создает новый экземпляр use case.
// paymentWindow <= 0 означает окно по умолчанию (15 минут).
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker KeyLocker,
	notifier Notifier,
	paymentWindow time.Duration,
	logger Logger,
) *UseCase {
	if paymentWindow <= 0 {
		paymentWindow = domain.DefaultPaymentWindow
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		txManager:     txManager,
		locker:        locker,
		notifier:      notifier,
		timeProvider:  &RealTimeProvider{},
		paymentWindow: paymentWindow,
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute оплачивает бронирование.
//
// Если окно оплаты истекло, бронирование переводится в expired, изменение
// фиксируется, и только после этого возвращается ErrBookingExpired.
// Если статус не pending_payment, возвращается *domain.InvalidStateError.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("PayBooking: booking=%d, student=%d", req.BookingID, req.StudentID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.StudentID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and studentID must be positive", ErrInvalidInput)
	}

	// 2. Блокировка бронирования
	unlock := uc.locker.Lock(fmt.Sprintf("booking:%d", req.BookingID))
	defer unlock()

	var (
		result  *domain.Booking
		expired bool
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		// 2.1. Получаем бронирование (FOR UPDATE на Postgres)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("PayBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("PayBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2.2. Платит только ученик бронирования
		if !booking.IsOwnedByStudent(req.StudentID) {
			uc.logger.Warn("PayBooking: user=%d does not own booking id=%d", req.StudentID, req.BookingID)
			return ErrNotOwner
		}

		// 2.3. Статус должен быть ровно pending_payment
		if booking.Status != domain.StatusPendingPayment {
			uc.logger.Warn("PayBooking: booking id=%d has status %s", req.BookingID, booking.Status)
			return &domain.InvalidStateError{Status: booking.Status, Target: domain.StatusConfirmed}
		}

		// 2.4. Окно оплаты
		target := domain.StatusConfirmed
		if booking.PaymentWindowElapsed(now, uc.paymentWindow) {
			target = domain.StatusExpired
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusPendingPayment, target, now); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				return &domain.InvalidStateError{Status: domain.StatusPendingPayment, Target: target}
			}
			uc.logger.Error("PayBooking: failed to move booking id=%d to %s: %v", req.BookingID, target, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		booking.Status = target
		booking.UpdatedAt = now
		result = booking
		expired = target == domain.StatusExpired

		// истечение фиксируется: транзакция завершается без ошибки
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		uc.logger.Warn("PayBooking: payment window elapsed for booking id=%d, marked expired", req.BookingID)
		uc.notifier.Notify(ctx, notifier.EventBookingExpired, result)
		return nil, ErrBookingExpired
	}

	uc.logger.Info("PayBooking: booking id=%d confirmed", req.BookingID)
	uc.notifier.Notify(ctx, notifier.EventBookingConfirmed, result)

	return models.FromDomainBooking(result), nil
}
