package schedule

import (
	"context"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписания врача
type AvailabilityRepository interface {
	GetWeek(ctx context.Context, doctorID int64) (domain.WeekTemplate, error)
	GetSettings(ctx context.Context, doctorID int64) (domain.AvailabilitySettings, error)
	ReplaceWeek(ctx context.Context, doctorID int64, week domain.WeekTemplate, settings domain.AvailabilitySettings) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
