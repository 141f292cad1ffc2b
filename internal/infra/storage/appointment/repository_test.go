package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func appointmentRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(appointmentColumns).AddRow(
		int64(11), "A1B2C3", int64(1), "Dr. House", "house@clinic.example",
		int64(7), "Ivan Petrov", "ivan@example.com", nil,
		time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), "10:00:00", "10:30:00",
		"confirmed", nil,
		"981234567", "https://zoom.example/j/981234567", "s3cret", "scheduled",
		false, false, nil,
		now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), time.Now(), time.Now()))

	appt := &domain.Appointment{
		AppointmentID:   "A1B2C3",
		DoctorID:        1,
		DoctorName:      "Dr. House",
		DoctorEmail:     "house@clinic.example",
		PatientID:       7,
		PatientName:     "Ivan Petrov",
		PatientEmail:    "ivan@example.com",
		AppointmentDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          domain.StatusConfirmed,
		MeetingStatus:   domain.MeetingScheduled,
	}

	created, err := repo.Create(context.Background(), appt)
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotTaken(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{
			Code:       "23505",
			Constraint: "appointments_active_slot_idx",
		})

	_, err := repo.Create(context.Background(), &domain.Appointment{})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRepository_Create_DuplicateAppointmentID(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{
			Code:       "23505",
			Constraint: "appointments_appointment_id_key",
		})

	_, err := repo.Create(context.Background(), &domain.Appointment{})
	assert.ErrorIs(t, err, ErrDuplicateAppointmentID)
}

func TestRepository_GetByAppointmentID(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("A1B2C3").
		WillReturnRows(appointmentRows())

	appt, err := repo.GetByAppointmentID(context.Background(), "A1B2C3")
	require.NoError(t, err)

	assert.Equal(t, int64(11), appt.ID)
	assert.Equal(t, "A1B2C3", appt.AppointmentID)
	// TIME из Postgres приходит с секундами и обрезается до HH:MM
	assert.Equal(t, "10:00", appt.StartTime.String())
	require.NotNil(t, appt.MeetingID)
	assert.Equal(t, "981234567", *appt.MeetingID)
}

func TestRepository_GetByAppointmentID_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("FFFFFF").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByAppointmentID(context.Background(), "FFFFFF")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetByMeetingID(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("981234567").
		WillReturnRows(appointmentRows())

	appt, err := repo.GetByMeetingID(context.Background(), "981234567")
	require.NoError(t, err)
	assert.Equal(t, "A1B2C3", appt.AppointmentID)
}

func TestRepository_GetActiveByDoctorAndDate(t *testing.T) {
	repo, mock := setupRepo(t)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(1), date, "pending", "confirmed").
		WillReturnRows(appointmentRows())

	appointments, err := repo.GetActiveByDoctorAndDate(context.Background(), 1, date)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, domain.StatusConfirmed, appointments[0].Status)
}

func TestRepository_ExistsAppointmentID(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT 1 FROM appointments").
		WithArgs("A1B2C3").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsAppointmentID(context.Background(), "A1B2C3")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM appointments").
		WithArgs("FFFFFF").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsAppointmentID(context.Background(), "FFFFFF")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_Reschedule(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Reschedule(context.Background(), 11,
		time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), "14:00", "14:30",
		domain.StatusConfirmed, ptr.Ptr("Rescheduled"))
	assert.NoError(t, err)
}

func TestRepository_Reschedule_SlotTaken(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("UPDATE appointments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "appointments_active_slot_idx"})

	err := repo.Reschedule(context.Background(), 11,
		time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), "14:00", "14:30",
		domain.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRepository_Cancel_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), 999, nil)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	// Ошибка от COMMIT приходит обернутой менеджером транзакций
	assert.True(t, IsSerializationFailure(fmt.Errorf("txmanager: commit transaction: %w", &pq.Error{Code: "40001"})))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationFailure(assert.AnError))
}

func TestRepository_UpdateMeetingState(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateMeetingState(context.Background(), 11, MeetingStateUpdate{
		MeetingStatus:     ptr.Ptr(domain.MeetingCompleted),
		AppointmentStatus: ptr.Ptr(domain.StatusCompleted),
		DurationMinutes:   ptr.Ptr(30),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
