package models

import (
	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
)

// Request модели

// ActorKind тип субъекта запроса
type ActorKind string

const (
	ActorDoctor  ActorKind = "doctor"
	ActorPatient ActorKind = "patient"
)

// Actor аутентифицированный субъект запроса
type Actor struct {
	Kind ActorKind
	ID   int64
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	AppointmentID string // Публичный идентификатор записи
	Actor         Actor  // Субъект, выполняющий отмену
	Reason        string // Причина отмены (попадает в notes)
}

// Response модели

// AppointmentResponse публичное представление записи
// Внутренний числовой ID наружу не отдается
type AppointmentResponse struct {
	AppointmentID string  `json:"appointmentId"`
	DoctorID      int64   `json:"doctorId"`
	DoctorName    string  `json:"doctorName"`
	PatientID     int64   `json:"patientId"`
	PatientName   string  `json:"patientName"`
	Date          string  `json:"date"`      // "2026-09-15"
	StartTime     string  `json:"startTime"` // "10:00"
	EndTime       string  `json:"endTime"`   // "10:30"
	Status        string  `json:"status"`
	MeetingURL    *string `json:"meetingUrl,omitempty"`
	MeetingStatus string  `json:"meetingStatus"`
	Notes         *string `json:"notes,omitempty"`
}

// MeetingStatusResponse состояние видеовстречи записи
type MeetingStatusResponse struct {
	MeetingID       string  `json:"meetingId"`
	MeetingURL      *string `json:"meetingUrl,omitempty"`
	MeetingPassword *string `json:"meetingPassword,omitempty"`
	Status          string  `json:"status"`
	HostJoined      bool    `json:"hostJoined"`
	ClientJoined    bool    `json:"clientJoined"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

// FromDomainAppointment конвертирует domain модель в публичное представление
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentID: appt.AppointmentID,
		DoctorID:      appt.DoctorID,
		DoctorName:    appt.DoctorName,
		PatientID:     appt.PatientID,
		PatientName:   appt.PatientName,
		Date:          appt.AppointmentDate.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		EndTime:       appt.EndTime.String(),
		Status:        string(appt.Status),
		MeetingURL:    appt.MeetingURL,
		MeetingStatus: string(appt.MeetingStatus),
		Notes:         appt.Notes,
	}
}

// FromDomainMeeting конвертирует состояние встречи в публичное представление
func FromDomainMeeting(appt *domain.Appointment) *MeetingStatusResponse {
	resp := &MeetingStatusResponse{
		MeetingURL:      appt.MeetingURL,
		MeetingPassword: appt.MeetingPassword,
		Status:          string(appt.MeetingStatus),
		HostJoined:      appt.HostJoined,
		ClientJoined:    appt.ClientJoined,
		DurationMinutes: appt.MeetingDurationMinutes,
	}
	if appt.MeetingID != nil {
		resp.MeetingID = *appt.MeetingID
	}
	return resp
}
