package reschedule_appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// commitFailTxManager имитирует откат транзакции на COMMIT:
// fn выполняется успешно, но фиксация возвращает ошибку
type commitFailTxManager struct {
	commitErr error
}

func (m commitFailTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return m.commitErr
}

type mockAppointmentRepo struct {
	appt          *domain.Appointment
	getErr        error
	active        []*domain.Appointment
	rescheduleErr error

	rescheduledID     int64
	rescheduledDate   time.Time
	rescheduledStart  types.TimeString
	rescheduledEnd    types.TimeString
	rescheduledStatus domain.AppointmentStatus
	rescheduledNotes  *string
}

func (m *mockAppointmentRepo) GetByAppointmentID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.appt, nil
}

func (m *mockAppointmentRepo) GetActiveByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.Appointment, error) {
	return m.active, nil
}

func (m *mockAppointmentRepo) Reschedule(ctx context.Context, id int64, date time.Time, start, end types.TimeString, status domain.AppointmentStatus, notes *string) error {
	if m.rescheduleErr != nil {
		return m.rescheduleErr
	}
	m.rescheduledID = id
	m.rescheduledDate = date
	m.rescheduledStart = start
	m.rescheduledEnd = end
	m.rescheduledStatus = status
	m.rescheduledNotes = notes
	return nil
}

type mockAvailabilityRepo struct{}

func (mockAvailabilityRepo) GetWeek(ctx context.Context, doctorID int64) (domain.WeekTemplate, error) {
	return domain.DefaultWeekTemplate(), nil
}

func (mockAvailabilityRepo) GetSettings(ctx context.Context, doctorID int64) (domain.AvailabilitySettings, error) {
	return domain.DefaultSettings(doctorID), nil
}

type mockMeetings struct {
	updatedID    string
	updatedStart string
	updatedDur   int
	updateErr    error
}

func (m *mockMeetings) UpdateMeeting(ctx context.Context, meetingID string, startTimeUTC string, durationMinutes int) error {
	m.updatedID = meetingID
	m.updatedStart = startTimeUTC
	m.updatedDur = durationMinutes
	return m.updateErr
}

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func storedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              11,
		AppointmentID:   "A1B2C3",
		DoctorID:        1,
		PatientID:       7,
		AppointmentDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          domain.StatusConfirmed,
		MeetingID:       ptr.Ptr("981234567"),
		MeetingURL:      ptr.Ptr("https://zoom.example/j/981234567"),
		MeetingStatus:   domain.MeetingScheduled,
	}
}

func newTestUseCase(appts *mockAppointmentRepo, meetings *mockMeetings) *UseCase {
	uc := NewUseCase(appts, mockAvailabilityRepo{}, meetings, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		AppointmentID: "A1B2C3",
		Actor:         Actor{Kind: ActorPatient, ID: 7},
		Date:          time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), // вторник
		StartTime:     "14:00",
		EndTime:       "14:30",
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	appts := &mockAppointmentRepo{appt: storedAppointment()}
	meetings := &mockMeetings{}
	uc := newTestUseCase(appts, meetings)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "A1B2C3", resp.AppointmentID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)

	assert.Equal(t, int64(11), appts.rescheduledID)
	assert.Equal(t, domain.StatusConfirmed, appts.rescheduledStatus)

	// Аудит переноса дописывается в notes
	require.NotNil(t, appts.rescheduledNotes)
	assert.Contains(t, *appts.rescheduledNotes, "Rescheduled from 2026-09-07 10:00-10:30 to 2026-09-08 14:00-14:30")

	// Встреча переносится у провайдера после коммита
	assert.Equal(t, "981234567", meetings.updatedID)
	assert.Equal(t, "2026-09-08T14:00:00Z", meetings.updatedStart)
	assert.Equal(t, 30, meetings.updatedDur)
}

func TestUseCase_Execute_AuditAppendsToExistingNotes(t *testing.T) {
	appt := storedAppointment()
	appt.Notes = ptr.Ptr("First visit")
	appts := &mockAppointmentRepo{appt: appt}
	uc := newTestUseCase(appts, &mockMeetings{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, appts.rescheduledNotes)
	assert.Contains(t, *appts.rescheduledNotes, "First visit\nRescheduled from")
}

func TestUseCase_Execute_AccessControl(t *testing.T) {
	// Перенос доступен только врачу и пациенту самой записи
	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{name: "own patient allowed", actor: Actor{Kind: ActorPatient, ID: 7}},
		{name: "own doctor allowed", actor: Actor{Kind: ActorDoctor, ID: 1}},
		{name: "other patient denied", actor: Actor{Kind: ActorPatient, ID: 8}, wantErr: ErrAccessDenied},
		{name: "other doctor denied", actor: Actor{Kind: ActorDoctor, ID: 2}, wantErr: ErrAccessDenied},
		{name: "patient with doctor id denied", actor: Actor{Kind: ActorPatient, ID: 1}, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := &mockAppointmentRepo{appt: storedAppointment()}
			uc := newTestUseCase(appts, &mockMeetings{})

			req := validRequest()
			req.Actor = tt.actor

			_, err := uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, appts.rescheduledID, "denied actor must not reschedule")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	appts := &mockAppointmentRepo{getErr: apptStorage.ErrAppointmentNotFound}
	uc := newTestUseCase(appts, &mockMeetings{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUseCase_Execute_CompletedIsTerminal(t *testing.T) {
	appt := storedAppointment()
	appt.Status = domain.StatusCompleted
	uc := newTestUseCase(&mockAppointmentRepo{appt: appt}, &mockMeetings{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestUseCase_Execute_CancelledCanBeRescheduled(t *testing.T) {
	// Перенос отмененной записи возвращает её в расписание
	appt := storedAppointment()
	appt.Status = domain.StatusCancelled
	appts := &mockAppointmentRepo{appt: appt}
	uc := newTestUseCase(appts, &mockMeetings{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestUseCase_Execute_ConflictExcludesSelf(t *testing.T) {
	appt := storedAppointment()
	appts := &mockAppointmentRepo{
		appt: appt,
		// Единственная активная запись на целевую дату - сама переносимая
		active: []*domain.Appointment{appt},
	}
	uc := newTestUseCase(appts, &mockMeetings{})

	req := validRequest()
	req.Date = appt.AppointmentDate
	req.StartTime = appt.StartTime
	req.EndTime = appt.EndTime

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err, "appointment must not conflict with itself")
}

func TestUseCase_Execute_ConflictWithOther(t *testing.T) {
	appts := &mockAppointmentRepo{
		appt: storedAppointment(),
		active: []*domain.Appointment{
			{ID: 99, AppointmentID: "FFFFFF", Status: domain.StatusConfirmed, StartTime: "14:00", EndTime: "14:30"},
		},
	}
	uc := newTestUseCase(appts, &mockMeetings{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestUseCase_Execute_ConstraintRace(t *testing.T) {
	appts := &mockAppointmentRepo{
		appt:          storedAppointment(),
		rescheduleErr: apptStorage.ErrSlotTaken,
	}
	uc := newTestUseCase(appts, &mockMeetings{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestUseCase_Execute_CommitSerializationFailure(t *testing.T) {
	// Конкурентный перенос выигрывает гонку: сериализуемая транзакция
	// откатывается на COMMIT с SQLSTATE 40001 - наружу идет конфликт слота
	appts := &mockAppointmentRepo{appt: storedAppointment()}
	uc := newTestUseCase(appts, &mockMeetings{})
	uc.txManager = commitFailTxManager{
		commitErr: fmt.Errorf("txmanager: commit transaction: %w", &pq.Error{Code: "40001"}),
	}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestUseCase_Execute_TargetStatus(t *testing.T) {
	appts := &mockAppointmentRepo{appt: storedAppointment()}
	uc := newTestUseCase(appts, &mockMeetings{})

	req := validRequest()
	req.Status = ptr.Ptr("pending")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, domain.StatusPending, appts.rescheduledStatus)
}

func TestUseCase_Execute_MeetingUpdateFailureIsSoft(t *testing.T) {
	appts := &mockAppointmentRepo{appt: storedAppointment()}
	meetings := &mockMeetings{updateErr: assert.AnError}
	uc := newTestUseCase(appts, meetings)

	// Ошибка провайдера не откатывает перенос
	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "A1B2C3", resp.AppointmentID)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&mockAppointmentRepo{appt: storedAppointment()}, &mockMeetings{})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "lowercase id", mutate: func(r *Request) { r.AppointmentID = "a1b2c3" }},
		{name: "short id", mutate: func(r *Request) { r.AppointmentID = "A1B2" }},
		{name: "unknown actor kind", mutate: func(r *Request) { r.Actor.Kind = "admin" }},
		{name: "zero actor id", mutate: func(r *Request) { r.Actor.ID = 0 }},
		{name: "zero date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "inverted window", mutate: func(r *Request) { r.StartTime = "15:00"; r.EndTime = "14:00" }},
		{name: "terminal target status", mutate: func(r *Request) { r.Status = ptr.Ptr("completed") }},
		{name: "unknown target status", mutate: func(r *Request) { r.Status = ptr.Ptr("parked") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
