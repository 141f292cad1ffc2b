package meetingevents

import (
	"context"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	GetByMeetingID(ctx context.Context, meetingID string) (*domain.Appointment, error)
	UpdateMeetingState(ctx context.Context, id int64, update apptStorage.MeetingStateUpdate) error
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
