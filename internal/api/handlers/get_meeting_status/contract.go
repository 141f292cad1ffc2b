package get_meeting_status

import (
	"context"

	"github.com/dkorchagin/TMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetMeetingStatus(ctx context.Context, appointmentID string, actor models.Actor) (*models.MeetingStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
