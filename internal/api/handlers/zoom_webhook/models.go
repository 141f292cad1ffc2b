package zoom_webhook

import "encoding/json"

// Провайдерные события, которые обрабатывает сервис
const (
	eventURLValidation     = "endpoint.url_validation"
	eventMeetingStarted    = "meeting.started"
	eventMeetingEnded      = "meeting.ended"
	eventParticipantJoined = "meeting.participant_joined"
	eventParticipantLeft   = "meeting.participant_left"
)

// webhookEvent общая форма входящего события
type webhookEvent struct {
	Event   string       `json:"event"`
	Payload eventPayload `json:"payload"`
}

type eventPayload struct {
	PlainToken string      `json:"plainToken,omitempty"`
	Object     eventObject `json:"object"`
}

type eventObject struct {
	// ID встречи приходит числом, но в хранилище живет строкой
	ID          json.Number       `json:"id"`
	Duration    *int              `json:"duration,omitempty"`
	Participant *eventParticipant `json:"participant,omitempty"`
}

type eventParticipant struct {
	Email    string `json:"email"`
	UserName string `json:"user_name"`
}

// validationResponse ответ на handshake валидации endpoint
// plainToken возвращается дословно - любая асимметрия ломает регистрацию
type validationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

// ackResponse подтверждение обработки события
type ackResponse struct {
	Status string `json:"status"`
}
