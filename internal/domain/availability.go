package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/pkg/types"
)

// ErrUnknownWeekday название дня недели не из закрытого списка Monday..Sunday
var ErrUnknownWeekday = errors.New("domain: unknown weekday")

// Weekday день недели в нумерации ISO: Monday = 1 ... Sunday = 7
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays все дни недели по порядку
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ParseWeekday принимает только точные названия "Monday".."Sunday"
func ParseWeekday(s string) (Weekday, error) {
	for d, name := range weekdayNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdayOf день недели даты
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	_, ok := weekdayNames[d]
	return ok
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeekday, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SlotTemplate повторяющийся еженедельный слот
type SlotTemplate struct {
	StartTime       types.TimeString
	DurationMinutes int // <= 0 означает "не задано"
}

// EffectiveDuration длительность с учетом значения по умолчанию
func (s SlotTemplate) EffectiveDuration() int {
	if s.DurationMinutes <= 0 {
		return DefaultSlotDurationMinutes
	}
	return s.DurationMinutes
}

// WeeklySlots шаблоны по дням недели. Пересечения внутри дня допустимы.
type WeeklySlots map[Weekday][]SlotTemplate

// AvailabilityTemplate недельное расписание преподавателя.
// Значение неизменяемое: при обновлении заменяется целиком.
type AvailabilityTemplate struct {
	TeacherID   int64
	WeeklySlots WeeklySlots
	UpdatedAt   time.Time
}

// NewAvailabilityTemplate делает глубокую копию слотов, чтобы вызывающий код
// не мог изменить сохраненный шаблон
func NewAvailabilityTemplate(teacherID int64, slots WeeklySlots, updatedAt time.Time) *AvailabilityTemplate {
	copied := make(WeeklySlots, len(slots))
	for day, list := range slots {
		if len(list) == 0 {
			continue
		}
		copied[day] = append([]SlotTemplate(nil), list...)
	}
	return &AvailabilityTemplate{TeacherID: teacherID, WeeklySlots: copied, UpdatedAt: updatedAt}
}

// EmptyAvailability шаблон без слотов
func EmptyAvailability(teacherID int64) *AvailabilityTemplate {
	return &AvailabilityTemplate{TeacherID: teacherID, WeeklySlots: WeeklySlots{}}
}

// SlotsFor слоты дня в порядке шаблона
func (a *AvailabilityTemplate) SlotsFor(day Weekday) []SlotTemplate {
	if a == nil {
		return nil
	}
	return a.WeeklySlots[day]
}

// IsEmpty в шаблоне нет ни одного слота
func (a *AvailabilityTemplate) IsEmpty() bool {
	if a == nil {
		return true
	}
	for _, list := range a.WeeklySlots {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

// SlotCount общее количество слотов
func (a *AvailabilityTemplate) SlotCount() int {
	if a == nil {
		return 0
	}
	n := 0
	for _, list := range a.WeeklySlots {
		n += len(list)
	}
	return n
}
