package domain

// Teacher профиль преподавателя из внешнего сервиса профилей
type Teacher struct {
	ID         int64
	Name       string
	HourlyRate *int // nil или <= 0: используется ставка по умолчанию
}

// RateOrDefault ставка преподавателя или def
func (t *Teacher) RateOrDefault(def int) int {
	if t == nil || t.HourlyRate == nil || *t.HourlyRate <= 0 {
		return def
	}
	return *t.HourlyRate
}
