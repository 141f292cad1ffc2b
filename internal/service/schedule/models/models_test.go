package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

func fullWeek() []DayTemplateModel {
	return []DayTemplateModel{
		{Weekday: "monday", IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: "tuesday", IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: "wednesday", IsAvailable: true, StartTime: "10:00", EndTime: "14:00"},
		{Weekday: "thursday", IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: "friday", IsAvailable: true, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: "saturday", IsAvailable: false},
		{Weekday: "sunday", IsAvailable: false},
	}
}

func validSettings() SettingsModel {
	return SettingsModel{SlotDurationMinutes: 30, BufferMinutes: 0, BookingWindowWeeks: 2}
}

func TestReplaceScheduleRequest_ToDomainWeek(t *testing.T) {
	req := &ReplaceScheduleRequest{DoctorID: 1, Week: fullWeek()}

	week, err := req.ToDomainWeek()
	require.NoError(t, err)

	monday := week[int(time.Monday)]
	assert.True(t, monday.IsAvailable)
	assert.Equal(t, types.TimeString("09:00"), monday.StartTime)
	assert.Equal(t, types.TimeString("17:00"), monday.EndTime)

	assert.False(t, week[int(time.Saturday)].IsAvailable)
	assert.True(t, week[int(time.Saturday)].StartTime.IsZero())
}

func TestReplaceScheduleRequest_ToDomainWeek_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]DayTemplateModel) []DayTemplateModel
	}{
		{
			name:   "missing day",
			mutate: func(w []DayTemplateModel) []DayTemplateModel { return w[:6] },
		},
		{
			name: "duplicate weekday",
			mutate: func(w []DayTemplateModel) []DayTemplateModel {
				w[1].Weekday = "monday"
				return w
			},
		},
		{
			name: "unknown weekday",
			mutate: func(w []DayTemplateModel) []DayTemplateModel {
				w[0].Weekday = "someday"
				return w
			},
		},
		{
			name: "available day without times",
			mutate: func(w []DayTemplateModel) []DayTemplateModel {
				w[0].StartTime = ""
				return w
			},
		},
		{
			name: "inverted window",
			mutate: func(w []DayTemplateModel) []DayTemplateModel {
				w[0].StartTime = "17:00"
				w[0].EndTime = "09:00"
				return w
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &ReplaceScheduleRequest{DoctorID: 1, Week: tt.mutate(fullWeek())}
			_, err := req.ToDomainWeek()
			assert.Error(t, err)
		})
	}
}

func TestReplaceScheduleRequest_ToDomainSettings(t *testing.T) {
	req := &ReplaceScheduleRequest{DoctorID: 1, Settings: validSettings()}

	settings, err := req.ToDomainSettings()
	require.NoError(t, err)
	assert.Equal(t, int64(1), settings.DoctorID)
	assert.Equal(t, 30, settings.SlotDurationMinutes)
}

func TestReplaceScheduleRequest_ToDomainSettings_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SettingsModel)
	}{
		{name: "duration not in catalog", mutate: func(s *SettingsModel) { s.SlotDurationMinutes = 25 }},
		{name: "zero duration", mutate: func(s *SettingsModel) { s.SlotDurationMinutes = 0 }},
		{name: "buffer not in catalog", mutate: func(s *SettingsModel) { s.BufferMinutes = 7 }},
		{name: "window too small", mutate: func(s *SettingsModel) { s.BookingWindowWeeks = 0 }},
		{name: "window too large", mutate: func(s *SettingsModel) { s.BookingWindowWeeks = 53 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validSettings()
			tt.mutate(&settings)
			req := &ReplaceScheduleRequest{DoctorID: 1, Settings: settings}
			_, err := req.ToDomainSettings()
			assert.Error(t, err)
		})
	}
}

func TestFromDomainSchedule_MondayFirst(t *testing.T) {
	resp := FromDomainSchedule(1, domain.DefaultWeekTemplate(), domain.DefaultSettings(1))

	require.Len(t, resp.Week, 7)
	assert.Equal(t, "monday", resp.Week[0].Weekday)
	assert.Equal(t, "sunday", resp.Week[6].Weekday)

	// У недоступных дней времена не отдаются
	assert.Equal(t, "", resp.Week[6].StartTime)
	assert.Equal(t, "09:00", resp.Week[0].StartTime)

	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.Settings.SlotDurationMinutes)
}

func TestWeekRoundTrip(t *testing.T) {
	req := &ReplaceScheduleRequest{DoctorID: 1, Week: fullWeek(), Settings: validSettings()}

	week, err := req.ToDomainWeek()
	require.NoError(t, err)
	settings, err := req.ToDomainSettings()
	require.NoError(t, err)

	resp := FromDomainSchedule(1, week, settings)
	assert.Equal(t, req.Week, resp.Week)
	assert.Equal(t, req.Settings, resp.Settings)
}
