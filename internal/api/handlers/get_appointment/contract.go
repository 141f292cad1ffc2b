package get_appointment

import (
	"context"

	"github.com/dkorchagin/TMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByAppointmentID(ctx context.Context, appointmentID string, actor models.Actor) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
