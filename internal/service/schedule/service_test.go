package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockAvailabilityRepo struct {
	week     domain.WeekTemplate
	settings domain.AvailabilitySettings

	replacedDoctorID int64
	replacedWeek     domain.WeekTemplate
	replacedSettings domain.AvailabilitySettings
	replaceErr       error
}

func (m *mockAvailabilityRepo) GetWeek(ctx context.Context, doctorID int64) (domain.WeekTemplate, error) {
	return m.week, nil
}

func (m *mockAvailabilityRepo) GetSettings(ctx context.Context, doctorID int64) (domain.AvailabilitySettings, error) {
	return m.settings, nil
}

func (m *mockAvailabilityRepo) ReplaceWeek(ctx context.Context, doctorID int64, week domain.WeekTemplate, settings domain.AvailabilitySettings) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replacedDoctorID = doctorID
	m.replacedWeek = week
	m.replacedSettings = settings
	return nil
}

func newTestService(repo *mockAvailabilityRepo) *Service {
	return NewService(repo, fakeTxManager{}, nopLogger{})
}

func replaceRequest(doctorID int64) *models.ReplaceScheduleRequest {
	week := make([]models.DayTemplateModel, 0, 7)
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		week = append(week, models.DayTemplateModel{
			Weekday: day, IsAvailable: true, StartTime: "09:00", EndTime: "17:00",
		})
	}
	week = append(week,
		models.DayTemplateModel{Weekday: "saturday"},
		models.DayTemplateModel{Weekday: "sunday"},
	)

	return &models.ReplaceScheduleRequest{
		DoctorID: doctorID,
		Week:     week,
		Settings: models.SettingsModel{SlotDurationMinutes: 45, BufferMinutes: 5, BookingWindowWeeks: 4},
	}
}

func TestService_GetSchedule(t *testing.T) {
	repo := &mockAvailabilityRepo{
		week:     domain.DefaultWeekTemplate(),
		settings: domain.DefaultSettings(1),
	}
	svc := newTestService(repo)

	resp, err := svc.GetSchedule(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.DoctorID)
	assert.Len(t, resp.Week, 7)
}

func TestService_GetSchedule_InvalidDoctorID(t *testing.T) {
	svc := newTestService(&mockAvailabilityRepo{})

	_, err := svc.GetSchedule(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ReplaceSchedule(t *testing.T) {
	repo := &mockAvailabilityRepo{}
	svc := newTestService(repo)

	resp, err := svc.ReplaceSchedule(context.Background(), replaceRequest(1), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.replacedDoctorID)
	assert.Equal(t, 45, repo.replacedSettings.SlotDurationMinutes)
	assert.Equal(t, 45, resp.Settings.SlotDurationMinutes)
	assert.True(t, repo.replacedWeek[1].IsAvailable) // понедельник
	assert.False(t, repo.replacedWeek[0].IsAvailable)
}

func TestService_ReplaceSchedule_OnlyOwnSchedule(t *testing.T) {
	repo := &mockAvailabilityRepo{}
	svc := newTestService(repo)

	_, err := svc.ReplaceSchedule(context.Background(), replaceRequest(1), 2)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.replacedDoctorID)
}

func TestService_ReplaceSchedule_InvalidWeek(t *testing.T) {
	svc := newTestService(&mockAvailabilityRepo{})

	req := replaceRequest(1)
	req.Week = req.Week[:3]

	_, err := svc.ReplaceSchedule(context.Background(), req, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ReplaceSchedule_InvalidSettings(t *testing.T) {
	svc := newTestService(&mockAvailabilityRepo{})

	req := replaceRequest(1)
	req.Settings.SlotDurationMinutes = 20

	_, err := svc.ReplaceSchedule(context.Background(), req, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ReplaceSchedule_RepositoryError(t *testing.T) {
	repo := &mockAvailabilityRepo{replaceErr: assert.AnError}
	svc := newTestService(repo)

	_, err := svc.ReplaceSchedule(context.Background(), replaceRequest(1), 1)
	assert.ErrorIs(t, err, ErrInternal)
}
