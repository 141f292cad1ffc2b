package models

import (
	"fmt"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// Request модели

// DayTemplateModel шаблон одного дня недели
type DayTemplateModel struct {
	Weekday     string `json:"weekday"`             // "monday" ... "sunday"
	IsAvailable bool   `json:"isAvailable"`         // Принимает ли врач в этот день
	StartTime   string `json:"startTime,omitempty"` // "09:00", обязательно для доступного дня
	EndTime     string `json:"endTime,omitempty"`   // "17:00", обязательно для доступного дня
}

// SettingsModel настройки генерации слотов
type SettingsModel struct {
	SlotDurationMinutes int `json:"slotDurationMinutes"`
	BufferMinutes       int `json:"bufferMinutes"`
	BookingWindowWeeks  int `json:"bookingWindowWeeks"`
}

// ReplaceScheduleRequest запрос на полную замену расписания врача
// Все 7 дней обязательны - частичных обновлений нет
type ReplaceScheduleRequest struct {
	DoctorID int64              `json:"-"`
	Week     []DayTemplateModel `json:"week"`
	Settings SettingsModel      `json:"settings"`
}

// Response модели

// ScheduleResponse недельный шаблон и настройки врача
type ScheduleResponse struct {
	DoctorID int64              `json:"doctorId"`
	Week     []DayTemplateModel `json:"week"`
	Settings SettingsModel      `json:"settings"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ToDomainWeek конвертирует и валидирует недельный шаблон
// Требует ровно 7 дней, каждый день недели ровно один раз
func (r *ReplaceScheduleRequest) ToDomainWeek() (domain.WeekTemplate, error) {
	var week domain.WeekTemplate

	if len(r.Week) != 7 {
		return week, fmt.Errorf("week must contain exactly 7 days, got %d", len(r.Week))
	}

	seen := make(map[time.Weekday]bool, 7)
	for _, day := range r.Week {
		weekday, ok := weekdayNames[day.Weekday]
		if !ok {
			return week, fmt.Errorf("unknown weekday %q", day.Weekday)
		}
		if seen[weekday] {
			return week, fmt.Errorf("duplicate weekday %q", day.Weekday)
		}
		seen[weekday] = true

		tmpl := domain.DayTemplate{
			Weekday:     weekday,
			IsAvailable: day.IsAvailable,
		}

		if day.IsAvailable {
			start, err := types.NewTimeStringFromString(day.StartTime)
			if err != nil {
				return week, fmt.Errorf("%s: invalid start time: %v", day.Weekday, err)
			}
			end, err := types.NewTimeStringFromString(day.EndTime)
			if err != nil {
				return week, fmt.Errorf("%s: invalid end time: %v", day.Weekday, err)
			}
			if !start.IsBefore(end) {
				return week, fmt.Errorf("%s: start time must be before end time", day.Weekday)
			}
			tmpl.StartTime = start
			tmpl.EndTime = end
		}

		week[int(weekday)] = tmpl
	}

	return week, nil
}

// ToDomainSettings конвертирует и валидирует настройки
func (r *ReplaceScheduleRequest) ToDomainSettings() (domain.AvailabilitySettings, error) {
	s := r.Settings

	if !domain.IsValidSlotDuration(s.SlotDurationMinutes) {
		return domain.AvailabilitySettings{}, fmt.Errorf("slot duration must be one of %v", domain.ValidSlotDurations)
	}
	if !domain.IsValidBuffer(s.BufferMinutes) {
		return domain.AvailabilitySettings{}, fmt.Errorf("buffer must be one of %v", domain.ValidBufferMinutes)
	}
	if s.BookingWindowWeeks < domain.MinBookingWindowWeeks || s.BookingWindowWeeks > domain.MaxBookingWindowWeeks {
		return domain.AvailabilitySettings{}, fmt.Errorf("booking window must be between %d and %d weeks",
			domain.MinBookingWindowWeeks, domain.MaxBookingWindowWeeks)
	}

	return domain.AvailabilitySettings{
		DoctorID:            r.DoctorID,
		SlotDurationMinutes: s.SlotDurationMinutes,
		BufferMinutes:       s.BufferMinutes,
		BookingWindowWeeks:  s.BookingWindowWeeks,
	}, nil
}

// FromDomainSchedule конвертирует domain модели в ответ
// Дни идут в привычном порядке с понедельника
func FromDomainSchedule(doctorID int64, week domain.WeekTemplate, settings domain.AvailabilitySettings) *ScheduleResponse {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	days := make([]DayTemplateModel, 0, len(order))
	for _, wd := range order {
		day := week[int(wd)]
		model := DayTemplateModel{
			Weekday:     weekdayName(wd),
			IsAvailable: day.IsAvailable,
		}
		if day.IsAvailable {
			model.StartTime = day.StartTime.String()
			model.EndTime = day.EndTime.String()
		}
		days = append(days, model)
	}

	return &ScheduleResponse{
		DoctorID: doctorID,
		Week:     days,
		Settings: SettingsModel{
			SlotDurationMinutes: settings.SlotDurationMinutes,
			BufferMinutes:       settings.BufferMinutes,
			BookingWindowWeeks:  settings.BookingWindowWeeks,
		},
	}
}

func weekdayName(wd time.Weekday) string {
	for name, v := range weekdayNames {
		if v == wd {
			return name
		}
	}
	return ""
}
