package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у субъекта нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyTerminal возвращается при попытке перенести завершенную запись
	ErrAlreadyTerminal = errors.New("appointment is already completed")

	// ErrOutOfAvailability возвращается, когда новое окно вне расписания врача
	ErrOutOfAvailability = errors.New("requested window is outside doctor availability")

	// ErrSlotConflict возвращается при пересечении с существующей записью
	ErrSlotConflict = errors.New("slot conflicts with an existing appointment")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает окно бронирования
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
