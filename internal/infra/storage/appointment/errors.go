package appointment

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается при нарушении уникального ограничения (doctor_id, appointment_date, start_time)
	// Это последний рубеж защиты от двойного бронирования при гонке конкурентных запросов
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrDuplicateAppointmentID возвращается при коллизии публичного идентификатора
	ErrDuplicateAppointmentID = errors.New("appointment.repository: duplicate appointment id")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// serializationFailure код Postgres для провала сериализации транзакции
const serializationFailure = pq.ErrorCode("40001")

// IsSerializationFailure сообщает, что сериализуемая транзакция проиграла гонку
// конкурентному бронированию и была откачена на COMMIT (SQLSTATE 40001)
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}
