package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrMeetingNotFound возвращается, когда у записи нет видеовстречи
	ErrMeetingNotFound = errors.New("appointment has no meeting")

	// ErrAccessDenied возвращается, когда у субъекта нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись уже завершена или отменена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
