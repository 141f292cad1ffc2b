package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/dbmetrics"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/psqlbuilder"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// Repository репозиторий для работы с шаблонами доступности и настройками слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeek получает недельный шаблон доступности врача
// При первом обращении лениво создает шаблон по умолчанию (Пн-Пт 09:00-17:00)
// Ленивое создание идемпотентно: ON CONFLICT DO NOTHING, после чего повторное чтение
func (r *Repository) GetWeek(ctx context.Context, doctorID int64) (domain.WeekTemplate, error) {
	week, found, err := r.selectWeek(ctx, doctorID)
	if err != nil {
		return domain.WeekTemplate{}, err
	}
	if found {
		return week, nil
	}

	// Шаблона нет - создаем дефолтный
	// Конкурентное первое обращение безопасно: дефолт детерминирован
	if err := r.insertWeek(ctx, doctorID, domain.DefaultWeekTemplate(), true); err != nil {
		return domain.WeekTemplate{}, err
	}

	week, found, err = r.selectWeek(ctx, doctorID)
	if err != nil {
		return domain.WeekTemplate{}, err
	}
	if !found {
		return domain.WeekTemplate{}, fmt.Errorf("%w: GetWeek - default template missing after insert", ErrTemplateNotFound)
	}

	return week, nil
}

// GetSettings получает настройки генерации слотов врача
// При первом обращении лениво создает настройки по умолчанию (30/0/2)
func (r *Repository) GetSettings(ctx context.Context, doctorID int64) (domain.AvailabilitySettings, error) {
	settings, found, err := r.selectSettings(ctx, doctorID)
	if err != nil {
		return domain.AvailabilitySettings{}, err
	}
	if found {
		return settings, nil
	}

	if err := r.insertSettings(ctx, domain.DefaultSettings(doctorID), true); err != nil {
		return domain.AvailabilitySettings{}, err
	}

	settings, found, err = r.selectSettings(ctx, doctorID)
	if err != nil {
		return domain.AvailabilitySettings{}, err
	}
	if !found {
		return domain.AvailabilitySettings{}, fmt.Errorf("%w: GetSettings - default settings missing after insert", ErrSettingsNotFound)
	}

	return settings, nil
}

// ReplaceWeek атомарно заменяет недельный шаблон и настройки врача
// Вызывается внутри транзакции (TransactionManager.Do) - при частичной ошибке
// прежнее состояние остается нетронутым
func (r *Repository) ReplaceWeek(ctx context.Context, doctorID int64, week domain.WeekTemplate, settings domain.AvailabilitySettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("availability_templates").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeek - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeek - delete old template: %v", ErrExecQuery, err)
	}

	if err := r.insertWeek(ctx, doctorID, week, false); err != nil {
		return err
	}

	settings.DoctorID = doctorID
	return r.upsertSettings(ctx, settings)
}

func (r *Repository) selectWeek(ctx context.Context, doctorID int64) (domain.WeekTemplate, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_available",
		"start_time",
		"end_time",
	).
		From("availability_templates").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return domain.WeekTemplate{}, false, fmt.Errorf("%w: selectWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.WeekTemplate{}, false, fmt.Errorf("%w: selectWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var week domain.WeekTemplate
	count := 0

	for rows.Next() {
		var day domain.DayTemplate
		var weekday int
		var start, end sql.NullString

		if err := rows.Scan(&weekday, &day.IsAvailable, &start, &end); err != nil {
			return domain.WeekTemplate{}, false, fmt.Errorf("%w: selectWeek - scan row: %v", ErrScanRow, err)
		}

		day.Weekday = time.Weekday(weekday)
		if start.Valid {
			day.StartTime = truncateTime(start.String)
		}
		if end.Valid {
			day.EndTime = truncateTime(end.String)
		}

		if weekday >= 0 && weekday < 7 {
			week[weekday] = day
			count++
		}
	}

	if err := rows.Err(); err != nil {
		return domain.WeekTemplate{}, false, fmt.Errorf("%w: selectWeek - rows error: %v", ErrScanRow, err)
	}

	return week, count == 7, nil
}

func (r *Repository) insertWeek(ctx context.Context, doctorID int64, week domain.WeekTemplate, onConflictIgnore bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("availability_templates").
		Columns("doctor_id", "weekday", "is_available", "start_time", "end_time")

	for weekday, day := range week {
		insertBuilder = insertBuilder.Values(doctorID, weekday, day.IsAvailable, day.StartTime, day.EndTime)
	}

	if onConflictIgnore {
		insertBuilder = insertBuilder.Suffix("ON CONFLICT (doctor_id, weekday) DO NOTHING")
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertWeek - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertWeek - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) selectSettings(ctx context.Context, doctorID int64) (domain.AvailabilitySettings, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"doctor_id",
		"slot_duration_minutes",
		"buffer_minutes",
		"booking_window_weeks",
		"created_at",
		"updated_at",
	).
		From("availability_settings").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()

	if err != nil {
		return domain.AvailabilitySettings{}, false, fmt.Errorf("%w: selectSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.AvailabilitySettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.DoctorID,
		&settings.SlotDurationMinutes,
		&settings.BufferMinutes,
		&settings.BookingWindowWeeks,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.AvailabilitySettings{}, false, nil
	}
	if err != nil {
		return domain.AvailabilitySettings{}, false, fmt.Errorf("%w: selectSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, true, nil
}

func (r *Repository) insertSettings(ctx context.Context, settings domain.AvailabilitySettings, onConflictIgnore bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("availability_settings").
		Columns("doctor_id", "slot_duration_minutes", "buffer_minutes", "booking_window_weeks").
		Values(settings.DoctorID, settings.SlotDurationMinutes, settings.BufferMinutes, settings.BookingWindowWeeks)

	if onConflictIgnore {
		insertBuilder = insertBuilder.Suffix("ON CONFLICT (doctor_id) DO NOTHING")
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertSettings - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertSettings - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) upsertSettings(ctx context.Context, settings domain.AvailabilitySettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_settings").
		Columns("doctor_id", "slot_duration_minutes", "buffer_minutes", "booking_window_weeks").
		Values(settings.DoctorID, settings.SlotDurationMinutes, settings.BufferMinutes, settings.BookingWindowWeeks).
		Suffix(`ON CONFLICT (doctor_id) DO UPDATE SET
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			booking_window_weeks = EXCLUDED.booking_window_weeks,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: upsertSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsertSettings - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// truncateTime обрезает секунды из "HH:MM:SS", который возвращает Postgres для TIME
func truncateTime(s string) types.TimeString {
	if len(s) > 5 {
		s = s[:5]
	}
	return types.TimeString(s)
}
