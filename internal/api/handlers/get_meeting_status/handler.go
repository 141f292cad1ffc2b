package get_meeting_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers"
	"github.com/dkorchagin/TMC-AppointmentService/internal/api/middleware"
	"github.com/dkorchagin/TMC-AppointmentService/internal/service/appointments"
	"github.com/dkorchagin/TMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgUnauthorized        = "требуется авторизация"
	msgAppointmentNotFound = "запись не найдена"
	msgMeetingNotFound     = "у записи нет видеовстречи"
	msgAccessDenied        = "нет доступа к этой записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}/meeting
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetMeetingStatus(r.Context(), appointmentID, models.Actor{
		Kind: models.ActorKind(actor.Kind),
		ID:   actor.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id}/meeting - Not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrMeetingNotFound):
			h.logger.Warn("GET /appointments/{id}/meeting - No meeting: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgMeetingNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id}/meeting - Access denied: appointment_id=%s, %s=%d",
				appointmentID, actor.Kind, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /appointments/{id}/meeting - Failed: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
