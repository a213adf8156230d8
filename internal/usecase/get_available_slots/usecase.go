package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/slots"
)

// UseCase use case для получения доступных слотов преподавателя
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityProvider
	filter       SlotFilter
	location     *time.Location
	horizonDays  int
	tolerance    time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityProvider,
	filter SlotFilter,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = domain.DefaultLookaheadDays
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = domain.DefaultCollisionTolerance
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		filter:       filter,
		location:     opts.Location,
		horizonDays:  opts.HorizonDays,
		tolerance:    opts.Tolerance,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Слоты строятся на дни с завтрашнего по now+horizonDays в часовом поясе расписаний.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: teacher=%d", req.TeacherID)

	// 1. Валидация входных данных
	if req.TeacherID <= 0 {
		return nil, fmt.Errorf("%w: teacherID must be positive", ErrInvalidInput)
	}

	// 2. Текущее время в часовом поясе расписаний
	now := uc.timeProvider.Now().In(uc.location)
	from := slots.HorizonStart(now)
	to := slots.HorizonEnd(now, uc.horizonDays)

	// 3. Недельный шаблон (пустой, если не задан)
	tpl, err := uc.availability.Template(ctx, req.TeacherID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability for teacher=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	resp := &Response{
		TeacherID: req.TeacherID,
		Timezone:  uc.location.String(),
		From:      from,
		To:        to,
		Slots:     make([]Slot, 0),
	}

	if tpl.IsEmpty() {
		uc.logger.Info("GetAvailableSlots: teacher=%d has no availability", req.TeacherID)
		return resp, nil
	}

	// 4. Активные бронирования вокруг горизонта: урок, начавшийся до полуночи,
	// может задевать первые слоты
	bookings, err := uc.bookingRepo.GetActiveByTeacher(ctx, req.TeacherID,
		from.Add(-domain.MaxSlotDurationMinutes*time.Minute),
		to.Add(uc.tolerance))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for teacher=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Проекция и фильтрация
	for _, c := range uc.filter.Bookable(slots.Project(tpl, now, uc.horizonDays), bookings) {
		resp.Slots = append(resp.Slots, Slot{
			Date:            c.Date,
			StartTime:       c.StartTime,
			DurationMinutes: c.DurationMinutes,
			StartsAt:        c.At(),
		})
	}

	uc.logger.Info("GetAvailableSlots: teacher=%d, %d slots, %d blocking bookings",
		req.TeacherID, len(resp.Slots), len(bookings))

	return resp, nil
}
