package create_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrOutOfAvailability возвращается, когда запрошенное окно вне расписания врача
	ErrOutOfAvailability = errors.New("requested window is outside doctor availability")

	// ErrSlotConflict возвращается при пересечении с существующей записью
	ErrSlotConflict = errors.New("slot conflicts with an existing appointment")

	// ErrProvisioningFailed возвращается при ошибке создания видеовстречи
	ErrProvisioningFailed = errors.New("failed to provision meeting")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает окно бронирования
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
