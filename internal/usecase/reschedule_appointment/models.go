package reschedule_appointment

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

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

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID string           // Публичный идентификатор записи
	Actor         Actor            // Субъект, выполняющий перенос
	Date          time.Time        // Новая дата записи
	StartTime     types.TimeString // Новое время начала
	EndTime       types.TimeString // Новое время окончания
	Status        *string          // Целевой статус (опционально, по умолчанию confirmed)
}

// Response модель ответа с перенесенной записью
type Response struct {
	AppointmentID string           // Публичный идентификатор записи
	DoctorID      int64            // ID врача
	PatientID     int64            // ID пациента
	Date          time.Time        // Новая дата записи
	StartTime     types.TimeString // Новое время начала
	EndTime       types.TimeString // Новое время окончания
	Status        string           // Статус записи
	MeetingURL    *string          // Ссылка для подключения
	MeetingStatus string           // Статус встречи
	Notes         *string          // Заметки (включая аудит переносов)
}
