package zoom_webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers"
)

const (
	signatureHeader = "X-Zoom-Signature-256"
	signaturePrefix = "v0="

	// Тело события ограничено, чтобы не читать произвольно большие запросы
	maxBodySize = 1 << 20

	msgInvalidSignature = "некорректная подпись события"
	msgMalformedEvent   = "некорректное тело события"
)

type Handler struct {
	service MeetingEventService
	secret  []byte
	logger  Logger
}

func NewHandler(service MeetingEventService, secret string, logger Logger) *Handler {
	return &Handler{
		service: service,
		secret:  []byte(secret),
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/zoom
// Подпись проверяется по сырому телу до какой-либо обработки
// Непроверенные события отбрасываются без изменения состояния
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Warn("POST /webhooks/zoom - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgMalformedEvent)
		return
	}
	defer r.Body.Close()

	if !h.verifySignature(body, r.Header.Get(signatureHeader)) {
		h.logger.Warn("POST /webhooks/zoom - Invalid signature")
		handlers.RespondUnauthorized(w, msgInvalidSignature)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("POST /webhooks/zoom - Malformed event: %v", err)
		handlers.RespondBadRequest(w, msgMalformedEvent)
		return
	}

	if event.Event == eventURLValidation {
		h.handleURLValidation(w, event)
		return
	}

	meetingID := event.Payload.Object.ID.String()

	switch event.Event {
	case eventMeetingStarted:
		err = h.service.HandleMeetingStarted(r.Context(), meetingID)

	case eventMeetingEnded:
		err = h.service.HandleMeetingEnded(r.Context(), meetingID, event.Payload.Object.Duration)

	case eventParticipantJoined:
		if event.Payload.Object.Participant == nil {
			h.logger.Warn("POST /webhooks/zoom - participant_joined without participant: meeting_id=%s", meetingID)
			handlers.RespondBadRequest(w, msgMalformedEvent)
			return
		}
		err = h.service.HandleParticipantJoined(r.Context(), meetingID, event.Payload.Object.Participant.Email)

	case eventParticipantLeft:
		if event.Payload.Object.Participant == nil {
			h.logger.Warn("POST /webhooks/zoom - participant_left without participant: meeting_id=%s", meetingID)
			handlers.RespondBadRequest(w, msgMalformedEvent)
			return
		}
		err = h.service.HandleParticipantLeft(r.Context(), meetingID, event.Payload.Object.Participant.Email)

	default:
		// Незнакомые события подтверждаем, чтобы провайдер не ретраил их бесконечно
		h.logger.Info("POST /webhooks/zoom - Ignoring event %q", event.Event)
		handlers.RespondJSON(w, http.StatusOK, ackResponse{Status: "ignored"})
		return
	}

	if err != nil {
		h.logger.Error("POST /webhooks/zoom - Failed to process %s: meeting_id=%s, error=%v",
			event.Event, meetingID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

// handleURLValidation отвечает на одноразовый handshake регистрации endpoint
func (h *Handler) handleURLValidation(w http.ResponseWriter, event webhookEvent) {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(event.Payload.PlainToken))

	h.logger.Info("POST /webhooks/zoom - URL validation handshake")
	handlers.RespondJSON(w, http.StatusOK, validationResponse{
		PlainToken:     event.Payload.PlainToken,
		EncryptedToken: hex.EncodeToString(mac.Sum(nil)),
	})
}

// verifySignature сверяет подпись события по сырому телу
func (h *Handler) verifySignature(body []byte, header string) bool {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(header))
}
