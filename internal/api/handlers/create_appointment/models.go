package create_appointment

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	createAppointment "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID     int64   `json:"doctorId"`
	Date         string  `json:"date"`      // "2026-09-15"
	StartTime    string  `json:"startTime"` // "10:00"
	EndTime      string  `json:"endTime"`   // "10:30"
	PatientName  string  `json:"patientName"`
	PatientEmail string  `json:"patientEmail"`
	PatientPhone *string `json:"patientPhone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	AppointmentID   string  `json:"appointmentId"`
	DoctorID        int64   `json:"doctorId"`
	DoctorName      string  `json:"doctorName"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          string  `json:"status"`
	MeetingURL      *string `json:"meetingUrl,omitempty"`
	MeetingPassword *string `json:"meetingPassword,omitempty"`
	MeetingStatus   string  `json:"meetingStatus"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// PatientID берется из токена, а не из тела запроса
func (r *CreateAppointmentRequest) ToUseCaseRequest(patientID int64) (*createAppointment.Request, error) {
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

	return &createAppointment.Request{
		DoctorID:     r.DoctorID,
		PatientID:    patientID,
		PatientName:  r.PatientName,
		PatientEmail: r.PatientEmail,
		PatientPhone: r.PatientPhone,
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		Notes:        r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentID:   resp.AppointmentID,
		DoctorID:        resp.DoctorID,
		DoctorName:      resp.DoctorName,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		Status:          resp.Status,
		MeetingURL:      resp.MeetingURL,
		MeetingPassword: resp.MeetingPassword,
		MeetingStatus:   resp.MeetingStatus,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
