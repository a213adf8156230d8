package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-LessonBookingService/pkg/types"
)

// Options параметры проекции
type Options struct {
	Location    *time.Location // Часовой пояс расписаний; nil = UTC
	HorizonDays int            // Горизонт в днях; <= 0 = 14
	Tolerance   time.Duration  // Допуск фильтра занятости; <= 0 = 5 минут
}

// Request модель запроса на получение доступных слотов
type Request struct {
	TeacherID int64
}

// Response модель ответа со списком доступных слотов
type Response struct {
	TeacherID int64     // ID преподавателя
	Timezone  string    // Часовой пояс, в котором заданы дата и время слотов
	From      time.Time // Начало горизонта (включительно)
	To        time.Time // Конец горизонта (не включительно)
	Slots     []Slot    // Свободные слоты по возрастанию даты
}

// Slot модель временного слота
type Slot struct {
	Date            time.Time        // Календарная дата
	StartTime       types.TimeString // Время начала (например, "14:00")
	DurationMinutes int              // Длительность в минутах
	StartsAt        time.Time        // Момент начала; передается в CreateBooking как date
}
