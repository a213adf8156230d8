package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/pkg/ptr"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name     string
		duration int
		rate     int
		want     int
	}{
		{name: "hour at default rate", duration: 60, rate: 0, want: 2000},
		{name: "ninety minutes", duration: 90, rate: 2000, want: 3000},
		{name: "forty five minutes", duration: 45, rate: 2000, want: 1500},
		{name: "half rounds up", duration: 1, rate: 30, want: 1},
		{name: "below half rounds down", duration: 1, rate: 29, want: 0},
		{name: "odd rate", duration: 50, rate: 1999, want: 1666},
		{name: "zero duration", duration: 0, rate: 2000, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Calculate(tc.duration, tc.rate))
		})
	}
}

func TestCalculatorUsesTeacherRate(t *testing.T) {
	c := NewCalculator(0)

	assert.Equal(t, 2000, c.Price(60, nil))
	assert.Equal(t, 2000, c.Price(60, &domain.Teacher{ID: 1}))
	assert.Equal(t, 4500, c.Price(90, &domain.Teacher{ID: 1, HourlyRate: ptr.Ptr(3000)}))

	custom := NewCalculator(1200)
	assert.Equal(t, 1200, custom.Price(60, &domain.Teacher{ID: 1}))
}
