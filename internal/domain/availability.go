package domain

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// DayTemplate шаблон доступности врача на один день недели
type DayTemplate struct {
	Weekday     time.Weekday
	IsAvailable bool
	StartTime   types.TimeString
	EndTime     types.TimeString
}

// WeekTemplate недельный шаблон доступности: 7 дней, индекс - time.Weekday (0 = Sunday)
type WeekTemplate [7]DayTemplate

// DayFor возвращает шаблон на день недели указанной даты
func (w WeekTemplate) DayFor(date time.Time) DayTemplate {
	return w[int(date.Weekday())]
}

// DefaultWeekTemplate возвращает шаблон по умолчанию: Пн-Пт 09:00-17:00, Сб-Вс недоступен
// Создается лениво при первом обращении к расписанию врача
func DefaultWeekTemplate() WeekTemplate {
	var week WeekTemplate
	for d := time.Sunday; d <= time.Saturday; d++ {
		day := DayTemplate{Weekday: d}
		if d != time.Sunday && d != time.Saturday {
			day.IsAvailable = true
			day.StartTime = DefaultDayStart
			day.EndTime = DefaultDayEnd
		}
		week[int(d)] = day
	}
	return week
}

// AvailabilitySettings настройки генерации слотов врача
type AvailabilitySettings struct {
	DoctorID            int64
	SlotDurationMinutes int
	BufferMinutes       int
	BookingWindowWeeks  int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DefaultSettings возвращает настройки по умолчанию
func DefaultSettings(doctorID int64) AvailabilitySettings {
	return AvailabilitySettings{
		DoctorID:            doctorID,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		BufferMinutes:       DefaultBufferMinutes,
		BookingWindowWeeks:  DefaultBookingWindowWeeks,
	}
}

// SlotStepMinutes возвращает шаг генерации слотов: длительность + буфер
func (s AvailabilitySettings) SlotStepMinutes() int {
	return s.SlotDurationMinutes + s.BufferMinutes
}

// LatestBookableDate возвращает последнюю дату, на которую разрешено бронирование
func (s AvailabilitySettings) LatestBookableDate(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, s.BookingWindowWeeks*7)
}
