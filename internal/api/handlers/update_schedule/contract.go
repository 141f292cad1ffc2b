package update_schedule

import (
	"context"

	"github.com/dkorchagin/TMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest, actorDoctorID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
