package reschedule_appointment

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/identity"
	rescheduleAppointment "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date      string  `json:"date"`      // "2026-09-16"
	StartTime string  `json:"startTime"` // "11:00"
	EndTime   string  `json:"endTime"`   // "11:30"
	Status    *string `json:"status,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	AppointmentID string  `json:"appointmentId"`
	DoctorID      int64   `json:"doctorId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	MeetingURL    *string `json:"meetingUrl,omitempty"`
	MeetingStatus string  `json:"meetingStatus"`
	Notes         *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID string, actor identity.Actor) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		Actor: rescheduleAppointment.Actor{
			Kind: rescheduleAppointment.ActorKind(actor.Kind),
			ID:   actor.ID,
		},
		Date: date,
		StartTime:     startTime,
		EndTime:       endTime,
		Status:        r.Status,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentID: resp.AppointmentID,
		DoctorID:      resp.DoctorID,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		Status:        resp.Status,
		MeetingURL:    resp.MeetingURL,
		MeetingStatus: resp.MeetingStatus,
		Notes:         resp.Notes,
	}
}
