package domain

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// MeetingStatus represents the status of the remote video meeting
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingStarted   MeetingStatus = "started"
	MeetingCompleted MeetingStatus = "completed"
	MeetingMissed    MeetingStatus = "missed"
	MeetingFailed    MeetingStatus = "failed"
)

// Appointment represents a doctor-patient appointment with a remote video meeting
type Appointment struct {
	ID            int64  // Внутренний ID (наружу не отдается)
	AppointmentID string // Публичный идентификатор: 6 символов, верхний hex

	DoctorID int64
	// Денормализованные данные врача (нужны для сопоставления участников встречи)
	DoctorName  string
	DoctorEmail string

	PatientID    int64
	PatientName  string
	PatientEmail string
	PatientPhone *string

	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          AppointmentStatus

	Notes *string // Свободный текст: причины отмены, аудит переносов

	// Состояние видеовстречи
	MeetingID              *string
	MeetingURL             *string
	MeetingPassword        *string
	MeetingStatus          MeetingStatus
	HostJoined             bool
	ClientJoined           bool
	MeetingDurationMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its time slot
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status != StatusCompleted && a.Status != StatusCancelled
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
// Отмененные записи можно переносить - это возвращает их в расписание
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status != StatusCompleted
}

// HasMeeting returns true if a remote meeting is attached to the appointment
func (a *Appointment) HasMeeting() bool {
	return a.MeetingID != nil && *a.MeetingID != ""
}

// MeetingTerminal returns true if the meeting reached a terminal state
func (a *Appointment) MeetingTerminal() bool {
	return a.MeetingStatus == MeetingCompleted ||
		a.MeetingStatus == MeetingMissed ||
		a.MeetingStatus == MeetingFailed
}

// DurationMinutes возвращает длительность записи в минутах
func (a *Appointment) DurationMinutes() int {
	start, err := a.StartTime.Minutes()
	if err != nil {
		return 0
	}
	end, err := a.EndTime.Minutes()
	if err != nil {
		return 0
	}
	return end - start
}

// Overlaps проверяет пересечение с полуинтервалом [start, end)
// Граничащие интервалы пересечением не считаются
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return a.StartTime.IsBefore(end) && a.EndTime.IsAfter(start)
}
