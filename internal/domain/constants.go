package domain

import "time"

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
	DefaultHourlyRate          = 2000
	DefaultLookaheadDays       = 14
	DefaultPaymentWindow       = 15 * time.Minute
	DefaultCollisionTolerance  = 5 * time.Minute
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxSlotsPerDay         = 48
	MaxNotesLength         = 500
	MaxMeetingLinkLength   = 1024
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, которые занимают слот
var BlockingStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
}

// InactiveStatuses статусы, которые слот не занимают
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusExpired,
}
