package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	StudentID       int64     // ID ученика (из X-User-ID)
	TeacherID       int64     // ID преподавателя
	Date            time.Time // Момент начала урока
	DurationMinutes int       // Длительность; 0 - по умолчанию
	SubjectID       *int64    // Предмет (опционально)
	Notes           *string   // Заметки (опционально)
}
