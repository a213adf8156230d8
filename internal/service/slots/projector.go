package slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// Project разворачивает недельный шаблон в конкретные слоты на horizonDays дней,
// начиная с завтрашнего дня относительно now (сегодня не включается).
//
// Последовательность ленивая и может проходиться повторно с тем же результатом.
// Порядок: по дням по возрастанию, внутри дня в порядке шаблона.
// Даты строятся в часовом поясе now.
func Project(tpl *domain.AvailabilityTemplate, now time.Time, horizonDays int) iter.Seq[domain.BookingSlotCandidate] {
	return func(yield func(domain.BookingSlotCandidate) bool) {
		if tpl.IsEmpty() || horizonDays <= 0 {
			return
		}

		y, m, d := now.Date()
		loc := now.Location()

		for offset := 1; offset <= horizonDays; offset++ {
			date := time.Date(y, m, d+offset, 0, 0, 0, 0, loc)

			for _, slot := range tpl.SlotsFor(domain.WeekdayOf(date)) {
				candidate := domain.BookingSlotCandidate{
					TeacherID:       tpl.TeacherID,
					Date:            date,
					StartTime:       slot.StartTime,
					DurationMinutes: slot.EffectiveDuration(),
				}
				if !yield(candidate) {
					return
				}
			}
		}
	}
}

// HorizonEnd первый момент после окна проекции (полночь дня now+horizonDays+1)
func HorizonEnd(now time.Time, horizonDays int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+horizonDays+1, 0, 0, 0, 0, now.Location())
}

// HorizonStart начало окна проекции (полночь завтрашнего дня)
func HorizonStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
