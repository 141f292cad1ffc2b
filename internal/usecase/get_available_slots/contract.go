package get_available_slots

import (
	"context"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/doctordirectory"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	// GetActiveByDoctorAndDate получает активные записи врача на конкретную дату
	GetActiveByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.Appointment, error)
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
