package pricing

import "github.com/m04kA/SMC-LessonBookingService/internal/domain"

// Calculate цена урока: round(durationMinutes / 60 * hourlyRate), половина округляется вверх.
// Считается в целых числах, чтобы не зависеть от представления float.
// hourlyRate <= 0 заменяется ставкой по умолчанию.
func Calculate(durationMinutes, hourlyRate int) int {
	if hourlyRate <= 0 {
		hourlyRate = domain.DefaultHourlyRate
	}
	if durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes*hourlyRate + 30) / 60
}

// Calculator считает цену с настраиваемой ставкой по умолчанию
type Calculator struct {
	defaultRate int
}

// NewCalculator defaultRate <= 0 означает domain.DefaultHourlyRate
func NewCalculator(defaultRate int) *Calculator {
	if defaultRate <= 0 {
		defaultRate = domain.DefaultHourlyRate
	}
	return &Calculator{defaultRate: defaultRate}
}

// Price цена урока для преподавателя; ставка берется из профиля или по умолчанию
func (c *Calculator) Price(durationMinutes int, teacher *domain.Teacher) int {
	return Calculate(durationMinutes, teacher.RateOrDefault(c.defaultRate))
}
