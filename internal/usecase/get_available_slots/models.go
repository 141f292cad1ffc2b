package get_available_slots

import (
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	DoctorID int64     // ID врача
	Date     time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	DoctorID int64         // ID врача
	Date     time.Time     // Дата, на которую запрашивались слоты
	Weekday  string        // День недели ("Monday", ...)
	Slots    []domain.Slot // Упорядоченный список слотов с флагом доступности
}
