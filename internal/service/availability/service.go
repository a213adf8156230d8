package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/availability/models"
)

// Service сервис недельных расписаний преподавателей
type Service struct {
	repo         AvailabilityRepository
	txManager    TransactionManager
	locker       KeyLocker
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	repo AvailabilityRepository,
	txManager TransactionManager,
	locker KeyLocker,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		txManager:    txManager,
		locker:       locker,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SetAvailability целиком заменяет расписание преподавателя.
// Менять расписание может только сам преподаватель.
// Уже созданные бронирования не затрагиваются.
func (s *Service) SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("SetAvailability: teacher=%d by user=%d", req.TeacherID, req.RequesterID)

	// 1. Проверяем права
	if req.RequesterID != req.TeacherID {
		s.logger.Warn("SetAvailability: user=%d is not teacher=%d", req.RequesterID, req.TeacherID)
		return nil, ErrAccessDenied
	}

	// 2. Валидация
	if err := validate(req); err != nil {
		s.logger.Warn("SetAvailability: validation failed for teacher=%d: %v", req.TeacherID, err)
		return nil, err
	}

	tpl := req.ToDomain(s.timeProvider.Now().UTC())

	// 3. Сохраняем атомарно: читатели видят либо старое, либо новое расписание
	unlock := s.locker.Lock(fmt.Sprintf("availability:%d", req.TeacherID))
	defer unlock()

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.repo.Replace(txCtx, tpl)
	})
	if err != nil {
		s.logger.Error("SetAvailability: failed to save template for teacher=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetAvailability: teacher=%d saved %d slots", req.TeacherID, tpl.SlotCount())
	return models.FromDomain(tpl), nil
}

// GetAvailability возвращает расписание. Если преподаватель его не задавал,
// возвращается пустое расписание, а не ошибка.
func (s *Service) GetAvailability(ctx context.Context, teacherID int64) (*models.AvailabilityResponse, error) {
	tpl, err := s.Template(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return models.FromDomain(tpl), nil
}

// Template доменный шаблон для проекции слотов
func (s *Service) Template(ctx context.Context, teacherID int64) (*domain.AvailabilityTemplate, error) {
	if teacherID <= 0 {
		return nil, fmt.Errorf("%w: teacher id must be positive", ErrInvalidInput)
	}

	tpl, err := s.repo.Get(ctx, teacherID)
	if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
		return domain.EmptyAvailability(teacherID), nil
	}
	if err != nil {
		s.logger.Error("Template: failed to get template for teacher=%d: %v", teacherID, err)
		return nil, fmt.Errorf("%w: Template - repository error: %v", ErrInternal, err)
	}

	return tpl, nil
}

func validate(req *models.SetAvailabilityRequest) error {
	if req.TeacherID <= 0 {
		return fmt.Errorf("%w: teacher id must be positive", ErrInvalidInput)
	}

	for day, slots := range req.WeeklySlots {
		if !day.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrUnknownWeekday)
		}
		if len(slots) > domain.MaxSlotsPerDay {
			return fmt.Errorf("%w: %s has %d slots, max %d", ErrInvalidInput, day, len(slots), domain.MaxSlotsPerDay)
		}

		for i, slot := range slots {
			if err := slot.StartTime.Validate(); err != nil {
				return fmt.Errorf("%w: %s slot %d: %v", ErrInvalidInput, day, i, err)
			}
			if slot.DurationMinutes == nil || *slot.DurationMinutes == 0 {
				continue
			}
			d := *slot.DurationMinutes
			if d < domain.MinSlotDurationMinutes || d > domain.MaxSlotDurationMinutes {
				return fmt.Errorf("%w: %s slot %d: duration must be between %d and %d minutes",
					ErrInvalidInput, day, i, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
			}
		}
	}

	return nil
}
