package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/dbmetrics"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/psqlbuilder"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

const uniqueViolation = pq.ErrorCode("23505")

var appointmentColumns = []string{
	"id",
	"appointment_id",
	"doctor_id",
	"doctor_name",
	"doctor_email",
	"patient_id",
	"patient_name",
	"patient_email",
	"patient_phone",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"notes",
	"meeting_id",
	"meeting_url",
	"meeting_password",
	"meeting_status",
	"host_joined",
	"client_joined",
	"meeting_duration_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на прием
// Нарушение ограничения уникальности слота транслируется в ErrSlotTaken,
// коллизия публичного идентификатора - в ErrDuplicateAppointmentID
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"appointment_id",
			"doctor_id",
			"doctor_name",
			"doctor_email",
			"patient_id",
			"patient_name",
			"patient_email",
			"patient_phone",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"notes",
			"meeting_id",
			"meeting_url",
			"meeting_password",
			"meeting_status",
			"host_joined",
			"client_joined",
			"meeting_duration_minutes",
		).
		Values(
			appt.AppointmentID,
			appt.DoctorID,
			appt.DoctorName,
			appt.DoctorEmail,
			appt.PatientID,
			appt.PatientName,
			appt.PatientEmail,
			appt.PatientPhone,
			appt.AppointmentDate,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.Notes,
			appt.MeetingID,
			appt.MeetingURL,
			appt.MeetingPassword,
			appt.MeetingStatus,
			appt.HostJoined,
			appt.ClientJoined,
			appt.MeetingDurationMinutes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByAppointmentID получает запись по публичному идентификатору
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByAppointmentID")
}

// GetByMeetingID получает запись по идентификатору видеовстречи
// Используется обработчиками webhook-событий
func (r *Repository) GetByMeetingID(ctx context.Context, meetingID string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"meeting_id": meetingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByMeetingID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByMeetingID")
}

// GetActiveByDoctorAndDate получает активные записи врача на дату, отсортированные по времени начала
// В транзакции добавляет FOR UPDATE для блокировки на время проверки занятости слота
func (r *Repository) GetActiveByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Eq{"status": activeStatuses}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDoctorAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDoctorAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ExistsAppointmentID проверяет занятость публичного идентификатора
func (r *Repository) ExistsAppointmentID(ctx context.Context, appointmentID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsAppointmentID - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// Reschedule переносит запись на новые дату и время
// Нарушение ограничения уникальности слота транслируется в ErrSlotTaken
func (r *Repository) Reschedule(
	ctx context.Context,
	id int64,
	date time.Time,
	start, end types.TimeString,
	status domain.AppointmentStatus,
	notes *string,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("appointment_date", date).
		Set("start_time", start).
		Set("end_time", end).
		Set("status", status).
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Reschedule")
}

// Cancel отменяет запись с сохранением причины в notes
func (r *Repository) Cancel(ctx context.Context, id int64, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Cancel")
}

// MeetingStateUpdate частичное обновление состояния видеовстречи
// nil-поля не изменяются
type MeetingStateUpdate struct {
	MeetingStatus     *domain.MeetingStatus
	HostJoined        *bool
	ClientJoined      *bool
	DurationMinutes   *int
	AppointmentStatus *domain.AppointmentStatus
}

// UpdateMeetingState применяет частичное обновление состояния встречи
// Все мутации от webhook-событий идут через этот единый путь обновления по id записи
func (r *Repository) UpdateMeetingState(ctx context.Context, id int64, update MeetingStateUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if update.MeetingStatus != nil {
		updateBuilder = updateBuilder.Set("meeting_status", *update.MeetingStatus)
	}
	if update.HostJoined != nil {
		updateBuilder = updateBuilder.Set("host_joined", *update.HostJoined)
	}
	if update.ClientJoined != nil {
		updateBuilder = updateBuilder.Set("client_joined", *update.ClientJoined)
	}
	if update.DurationMinutes != nil {
		updateBuilder = updateBuilder.Set("meeting_duration_minutes", *update.DurationMinutes)
	}
	if update.AppointmentStatus != nil {
		updateBuilder = updateBuilder.Set("status", *update.AppointmentStatus)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateMeetingState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateMeetingState - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateMeetingState")
}

// scanOne сканирует одну запись из QueryRow
func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Appointment, error) {
	appt, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}
	return appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func scanAppointment(scan func(dest ...interface{}) error) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&appt.ID,
		&appt.AppointmentID,
		&appt.DoctorID,
		&appt.DoctorName,
		&appt.DoctorEmail,
		&appt.PatientID,
		&appt.PatientName,
		&appt.PatientEmail,
		&appt.PatientPhone,
		&appt.AppointmentDate,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.Notes,
		&appt.MeetingID,
		&appt.MeetingURL,
		&appt.MeetingPassword,
		&appt.MeetingStatus,
		&appt.HostJoined,
		&appt.ClientJoined,
		&appt.MeetingDurationMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// mapUniqueViolation транслирует нарушение unique constraint в доменную ошибку
// Возвращает nil, если ошибка не связана с уникальностью
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}

	if strings.Contains(pqErr.Constraint, "appointment_id") {
		return ErrDuplicateAppointmentID
	}
	return ErrSlotTaken
}
