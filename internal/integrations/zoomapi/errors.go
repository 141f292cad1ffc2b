package zoomapi

import "errors"

var (
	// ErrMeetingNotFound возвращается, когда встреча не найдена у провайдера
	ErrMeetingNotFound = errors.New("zoomapi client: meeting not found")

	// ErrAuthFailed возвращается при ошибке получения OAuth токена
	ErrAuthFailed = errors.New("zoomapi client: failed to obtain access token")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("zoomapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Zoom API
	ErrInvalidResponse = errors.New("zoomapi client: invalid response")
)
