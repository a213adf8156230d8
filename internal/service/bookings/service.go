package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение, отмена, ссылка на урок
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	locker       KeyLocker
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker KeyLocker,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		locker:       locker,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут только его ученик и преподаватель.
// Статус возвращается как есть: просроченное неоплаченное бронирование
// остается pending_payment, пока его не попытаются оплатить.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.IsParticipant(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrNotOwner
	}

	return models.FromDomainBooking(booking), nil
}

// GetStudentBookings история бронирований ученика, новые сверху.
// Опционально фильтрует по статусу
func (s *Service) GetStudentBookings(ctx context.Context, req *models.GetStudentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStudentBookings: fetching bookings for student=%d, status=%v", req.StudentID, req.Status)

	if req.RequesterID != req.StudentID {
		s.logger.Warn("GetStudentBookings: user=%d requested bookings of student=%d", req.RequesterID, req.StudentID)
		return nil, ErrNotOwner
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		parsed, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetStudentBookings: invalid status=%s for student=%d", *req.Status, req.StudentID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	bookings, err := s.bookingRepo.GetByStudentID(ctx, req.StudentID, status)
	if err != nil {
		s.logger.Error("GetStudentBookings: repository error for student=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: GetStudentBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStudentBookings: fetched %d bookings for student=%d", len(bookings), req.StudentID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTeacherBookings бронирования преподавателя с фильтрацией по периоду и статусу.
// Без фильтра по статусу возвращаются только активные, если не указан IncludeInactive
func (s *Service) GetTeacherBookings(ctx context.Context, req *models.GetTeacherBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTeacherBookings: fetching bookings for teacher=%d, includeInactive=%t", req.TeacherID, req.IncludeInactive)

	if req.RequesterID != req.TeacherID {
		s.logger.Warn("GetTeacherBookings: user=%d requested bookings of teacher=%d", req.RequesterID, req.TeacherID)
		return nil, ErrNotOwner
	}

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTeacherBookings: invalid filter for teacher=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTeacherWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTeacherBookings: repository error for teacher=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: GetTeacherBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTeacherBookings: fetched %d bookings for teacher=%d", len(bookings), req.TeacherID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Отменить может ученик или преподаватель бронирования.
// Повторная отмена, как и отмена истекшего бронирования, успешна и ничего не меняет.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", req.BookingID, req.RequesterID)

	unlock := s.locker.Lock(fmt.Sprintf("booking:%d", req.BookingID))
	defer unlock()

	var (
		result    *domain.Booking
		cancelled bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование (строка блокируется до конца транзакции)
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// 2. Проверяем права
		if !booking.IsParticipant(req.RequesterID) {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.RequesterID, req.BookingID)
			return ErrNotOwner
		}

		// 3. Уже отменено или истекло
		if booking.Status.IsTerminal() {
			s.logger.Info("Cancel: booking id=%d already %s, nothing to do", req.BookingID, booking.Status)
			result = booking
			return nil
		}

		if err := domain.CheckTransition(booking.Status, domain.StatusCancelled); err != nil {
			return err
		}

		// 4. Отменяем
		now := s.timeProvider.Now()
		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status, domain.StatusCancelled, now); err != nil {
			s.logger.Error("Cancel: failed to update status for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		booking.UpdatedAt = now
		result = booking
		cancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		s.notifier.Notify(ctx, notifier.EventBookingCancelled, result)
		s.logger.Info("Cancel: booking id=%d cancelled by user=%d", req.BookingID, req.RequesterID)
	}

	return models.FromDomainBooking(result), nil
}

// SetMeetingLink устанавливает ссылку на урок.
// Доступно только преподавателю и только для подтвержденного бронирования.
func (s *Service) SetMeetingLink(ctx context.Context, req *models.SetMeetingLinkRequest) (*models.BookingResponse, error) {
	s.logger.Info("SetMeetingLink: booking id=%d by user=%d", req.BookingID, req.RequesterID)

	if err := validateMeetingLink(req.MeetingLink); err != nil {
		s.logger.Warn("SetMeetingLink: validation failed: %v", err)
		return nil, err
	}

	unlock := s.locker.Lock(fmt.Sprintf("booking:%d", req.BookingID))
	defer unlock()

	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: SetMeetingLink - repository error: %v", ErrInternal, err)
		}

		if booking.TeacherID != req.RequesterID {
			s.logger.Warn("SetMeetingLink: user=%d is not the teacher of booking id=%d", req.RequesterID, req.BookingID)
			return ErrNotOwner
		}

		if booking.Status != domain.StatusConfirmed {
			return &domain.InvalidStateError{Status: booking.Status, Target: domain.StatusConfirmed}
		}

		now := s.timeProvider.Now()
		if err := s.bookingRepo.SetMeetingLink(txCtx, booking.ID, req.MeetingLink, now); err != nil {
			s.logger.Error("SetMeetingLink: failed for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: SetMeetingLink - repository error: %v", ErrInternal, err)
		}

		link := req.MeetingLink
		booking.MeetingLink = &link
		booking.UpdatedAt = now
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(result), nil
}

func validateMeetingLink(link string) error {
	if link == "" {
		return fmt.Errorf("%w: meeting link is required", ErrInvalidInput)
	}
	if len(link) > domain.MaxMeetingLinkLength {
		return fmt.Errorf("%w: meeting link is too long", ErrInvalidInput)
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: meeting link must be an absolute http(s) URL", ErrInvalidInput)
	}

	return nil
}
