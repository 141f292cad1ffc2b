package create_appointment

import (
	"context"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/doctordirectory"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/zoomapi"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// GetActiveByDoctorAndDate получает активные записи врача на дату
	// Внутри транзакции строки блокируются (FOR UPDATE)
	GetActiveByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.Appointment, error)
	ExistsAppointmentID(ctx context.Context, appointmentID string) (bool, error)
}

// AvailabilityRepository интерфейс репозитория расписания врача
type AvailabilityRepository interface {
	GetWeek(ctx context.Context, doctorID int64) (domain.WeekTemplate, error)
	GetSettings(ctx context.Context, doctorID int64) (domain.AvailabilitySettings, error)
}

// DoctorDirectoryClient интерфейс клиента справочника врачей
type DoctorDirectoryClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*doctordirectory.Doctor, error)
}

// MeetingProvisioner интерфейс провайдера видеовстреч
type MeetingProvisioner interface {
	CreateMeeting(ctx context.Context, req zoomapi.CreateMeetingRequest) (*zoomapi.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID string) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
