package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/database"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/bookings/models"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	calculator    PriceCalculator
	txManager     TransactionManager
	locker        KeyLocker
	notifier      Notifier
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	calculator PriceCalculator,
	txManager TransactionManager,
	locker KeyLocker,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		calculator:    calculator,
		txManager:     txManager,
		locker:        locker,
		notifier:      notifier,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
//
// Проверка "на этот момент нет активного бронирования" и вставка выполняются
// под блокировкой (teacher, date) внутри сериализуемой транзакции.
// Частичный уникальный индекс в БД закрывает гонку между процессами: проигравший
// получает 23505 или 40001, оба варианта возвращаются как ErrSlotNotAvailable.
//
// Дата усекается до минуты и должна быть в будущем, поэтому запрос на 14:00:30
// конфликтует с существующим бронированием на 14:00.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("CreateBooking: student=%d, teacher=%d, date=%s, duration=%d",
		req.StudentID, req.TeacherID, req.Date.UTC().Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := req.Date.Truncate(time.Minute).UTC()

	if !date.After(now) {
		uc.logger.Warn("CreateBooking: date %s is not in the future", date.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: date must be in the future", ErrInvalidDate)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultSlotDurationMinutes
	}

	// 3. Получаем преподавателя
	teacher, err := uc.profileClient.GetTeacher(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, profileservice.ErrTeacherNotFound) {
			uc.logger.Warn("CreateBooking: teacher id=%d not found", req.TeacherID)
			return nil, ErrTeacherNotFound
		}
		uc.logger.Error("CreateBooking: failed to get teacher id=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: failed to get teacher: %v", ErrInternal, err)
	}

	// 4. Цена фиксируется в момент создания
	price := uc.calculator.Price(duration, teacher)

	// 5. Блокировка на (teacher, date)
	unlock := uc.locker.Lock(fmt.Sprintf("create:%d:%s", req.TeacherID, date.Format(time.RFC3339)))
	defer unlock()

	var result *domain.Booking

	// 6. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Точное совпадение по времени начала
		exists, err := uc.bookingRepo.ExistsActiveAt(txCtx, req.TeacherID, date)
		if errors.Is(err, bookingRepo.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: concurrent check lost for teacher=%d at %s", req.TeacherID, date.Format(time.RFC3339))
			return ErrSlotNotAvailable
		}
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check existing bookings: %v", err)
			return fmt.Errorf("%w: failed to check existing bookings: %v", ErrInternal, err)
		}
		if exists {
			uc.logger.Warn("CreateBooking: teacher=%d already booked at %s", req.TeacherID, date.Format(time.RFC3339))
			return ErrSlotNotAvailable
		}

		// 6.2. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			StudentID:       req.StudentID,
			TeacherID:       req.TeacherID,
			SubjectID:       req.SubjectID,
			Date:            date,
			DurationMinutes: duration,
			Notes:           req.Notes,
			Price:           price,
			Status:          domain.StatusPendingPayment,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) || errors.Is(err, bookingRepo.ErrSerializationFailure) {
				uc.logger.Warn("CreateBooking: unique index rejected teacher=%d at %s", req.TeacherID, date.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// конфликт может проявиться только на COMMIT
		if errors.Is(err, bookingRepo.ErrSlotNotAvailable) || database.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: commit lost the race for teacher=%d at %s", req.TeacherID, date.Format(time.RFC3339))
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, price=%d", result.ID, result.Price)

	// 7. Событие после фиксации
	uc.notifier.Notify(ctx, notifier.EventBookingCreated, result)

	return models.FromDomainBooking(result), nil
}
