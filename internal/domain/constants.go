package domain

import "github.com/dkorchagin/TMC-AppointmentService/pkg/types"

// Default availability values
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultBookingWindowWeeks  = 2

	DefaultDayStart = types.TimeString("09:00")
	DefaultDayEnd   = types.TimeString("17:00")
)

// Business validation constants
const (
	AppointmentIDLength      = 6
	MaxNotesLength           = 1000
	MaxCancellationReasonLen = 500
	MinBookingWindowWeeks    = 1
	MaxBookingWindowWeeks    = 52
	MeetingPasswordLength    = 8
)

// DateFormat формат дат в API и логах (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ValidSlotDurations допустимые длительности слота в минутах
var ValidSlotDurations = []int{15, 30, 45, 60}

// ValidBufferMinutes допустимые буферы между слотами в минутах
var ValidBufferMinutes = []int{0, 5, 10, 15}

// IsValidSlotDuration проверяет допустимость длительности слота
func IsValidSlotDuration(minutes int) bool {
	for _, v := range ValidSlotDurations {
		if v == minutes {
			return true
		}
	}
	return false
}

// IsValidBuffer проверяет допустимость буфера
func IsValidBuffer(minutes int) bool {
	for _, v := range ValidBufferMinutes {
		if v == minutes {
			return true
		}
	}
	return false
}

// ActiveStatuses статусы записей, занимающих слот в расписании
// Используются при проверке пересечений
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
