package create_appointment

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	DoctorID     int64            // ID врача
	PatientID    int64            // ID пациента (из токена)
	PatientName  string           // Имя пациента
	PatientEmail string           // Email пациента (для сопоставления участников встречи)
	PatientPhone *string          // Телефон пациента (опционально)
	Date         time.Time        // Дата записи (без времени)
	StartTime    types.TimeString // Время начала (например, "10:00")
	EndTime      types.TimeString // Время окончания (например, "10:30")
	Notes        *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID string           // Публичный идентификатор записи
	DoctorID      int64            // ID врача
	DoctorName    string           // Имя врача
	PatientID     int64            // ID пациента
	Date          time.Time        // Дата записи
	StartTime     types.TimeString // Время начала
	EndTime       types.TimeString // Время окончания
	Status        string           // Статус записи

	// Данные для подключения к видеовстрече
	MeetingURL      *string // Ссылка для подключения
	MeetingPassword *string // Пароль встречи
	MeetingStatus   string  // Статус встречи

	Notes     *string   // Заметки
	CreatedAt time.Time // Время создания
}
