package appointments

import (
	"context"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	GetByAppointmentID(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, notes *string) error
}

// MeetingProvisioner интерфейс провайдера видеовстреч
type MeetingProvisioner interface {
	DeleteMeeting(ctx context.Context, meetingID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
