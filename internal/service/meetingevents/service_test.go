package meetingevents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockAppointmentRepo struct {
	appt    *domain.Appointment
	getErr  error
	updates []apptStorage.MeetingStateUpdate
}

func (m *mockAppointmentRepo) GetByMeetingID(ctx context.Context, meetingID string) (*domain.Appointment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.appt, nil
}

func (m *mockAppointmentRepo) UpdateMeetingState(ctx context.Context, id int64, update apptStorage.MeetingStateUpdate) error {
	m.updates = append(m.updates, update)
	return nil
}

func scheduledAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            11,
		AppointmentID: "A1B2C3",
		DoctorEmail:   "House@Clinic.example",
		PatientEmail:  "ivan@example.com",
		Status:        domain.StatusConfirmed,
		MeetingID:     ptr.Ptr("981234567"),
		MeetingStatus: domain.MeetingScheduled,
	}
}

func newTestService(repo *mockAppointmentRepo) *Service {
	return NewService(repo, fakeTxManager{}, nopLogger{})
}

func TestHandleMeetingStarted(t *testing.T) {
	repo := &mockAppointmentRepo{appt: scheduledAppointment()}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingStarted(context.Background(), "981234567"))
	require.Len(t, repo.updates, 1)
	assert.Equal(t, domain.MeetingStarted, *repo.updates[0].MeetingStatus)
}

func TestHandleMeetingStarted_Idempotent(t *testing.T) {
	appt := scheduledAppointment()
	appt.MeetingStatus = domain.MeetingStarted
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingStarted(context.Background(), "981234567"))
	assert.Empty(t, repo.updates, "repeated start must not touch storage")
}

func TestHandleMeetingStarted_AfterTerminalIgnored(t *testing.T) {
	// Провайдер может доставить started с опозданием, уже после ended
	appt := scheduledAppointment()
	appt.MeetingStatus = domain.MeetingCompleted
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingStarted(context.Background(), "981234567"))
	assert.Empty(t, repo.updates)
}

func TestHandleMeetingStarted_UnknownMeetingIsNoop(t *testing.T) {
	repo := &mockAppointmentRepo{getErr: apptStorage.ErrAppointmentNotFound}
	svc := newTestService(repo)

	assert.NoError(t, svc.HandleMeetingStarted(context.Background(), "000000000"))
	assert.Empty(t, repo.updates)
}

func TestHandleParticipantJoined(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		wantHost   bool
		wantClient bool
		wantNoop   bool
	}{
		{name: "doctor joins", email: "house@clinic.example", wantHost: true},
		{name: "doctor email case and spaces ignored", email: "  HOUSE@CLINIC.EXAMPLE  ", wantHost: true},
		{name: "patient joins", email: "ivan@example.com", wantClient: true},
		{name: "unknown participant ignored", email: "stranger@example.com", wantNoop: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointmentRepo{appt: scheduledAppointment()}
			svc := newTestService(repo)

			require.NoError(t, svc.HandleParticipantJoined(context.Background(), "981234567", tt.email))

			if tt.wantNoop {
				assert.Empty(t, repo.updates)
				return
			}

			require.Len(t, repo.updates, 1)
			update := repo.updates[0]
			if tt.wantHost {
				require.NotNil(t, update.HostJoined)
				assert.True(t, *update.HostJoined)
				assert.Nil(t, update.ClientJoined)
			}
			if tt.wantClient {
				require.NotNil(t, update.ClientJoined)
				assert.True(t, *update.ClientJoined)
				assert.Nil(t, update.HostJoined)
			}
		})
	}
}

func TestHandleParticipantJoined_RepeatedJoinIdempotent(t *testing.T) {
	appt := scheduledAppointment()
	appt.HostJoined = true
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleParticipantJoined(context.Background(), "981234567", "house@clinic.example"))
	assert.Empty(t, repo.updates)
}

func TestHandleParticipantLeft_NeverMutates(t *testing.T) {
	repo := &mockAppointmentRepo{appt: scheduledAppointment()}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleParticipantLeft(context.Background(), "981234567", "house@clinic.example"))
	assert.Empty(t, repo.updates)
}

func TestHandleMeetingEnded_OnlyHostJoined(t *testing.T) {
	appt := scheduledAppointment()
	appt.MeetingStatus = domain.MeetingStarted
	appt.HostJoined = true
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingEnded(context.Background(), "981234567", ptr.Ptr(25)))

	require.Len(t, repo.updates, 1)
	update := repo.updates[0]
	assert.Equal(t, domain.MeetingMissed, *update.MeetingStatus)
	assert.Nil(t, update.AppointmentStatus, "appointment status stays untouched on missed meeting")
	require.NotNil(t, update.DurationMinutes)
	assert.Equal(t, 25, *update.DurationMinutes)
}

func TestHandleMeetingEnded_BothJoined(t *testing.T) {
	appt := scheduledAppointment()
	appt.MeetingStatus = domain.MeetingStarted
	appt.HostJoined = true
	appt.ClientJoined = true
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingEnded(context.Background(), "981234567", ptr.Ptr(30)))

	require.Len(t, repo.updates, 1)
	update := repo.updates[0]
	assert.Equal(t, domain.MeetingCompleted, *update.MeetingStatus)
	require.NotNil(t, update.AppointmentStatus)
	assert.Equal(t, domain.StatusCompleted, *update.AppointmentStatus)
}

func TestHandleMeetingEnded_NobodyJoined(t *testing.T) {
	appt := scheduledAppointment()
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingEnded(context.Background(), "981234567", nil))

	require.Len(t, repo.updates, 1)
	assert.Equal(t, domain.MeetingMissed, *repo.updates[0].MeetingStatus)
	assert.Nil(t, repo.updates[0].DurationMinutes)
}

func TestHandleMeetingEnded_AfterTerminalIgnored(t *testing.T) {
	appt := scheduledAppointment()
	appt.MeetingStatus = domain.MeetingMissed
	repo := &mockAppointmentRepo{appt: appt}
	svc := newTestService(repo)

	require.NoError(t, svc.HandleMeetingEnded(context.Background(), "981234567", ptr.Ptr(10)))
	assert.Empty(t, repo.updates, "terminal meeting state is monotonic")
}

func TestHandleMeetingEnded_RepositoryError(t *testing.T) {
	repo := &mockAppointmentRepo{getErr: assert.AnError}
	svc := newTestService(repo)

	err := svc.HandleMeetingEnded(context.Background(), "981234567", nil)
	assert.ErrorIs(t, err, ErrInternal)
}
