package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers"
	"github.com/dkorchagin/TMC-AppointmentService/internal/api/middleware"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/identity"
	"github.com/dkorchagin/TMC-AppointmentService/internal/service/schedule"
	"github.com/dkorchagin/TMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidDoctorID    = "некорректный идентификатор врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgDoctorsOnly        = "расписание может менять только врач"
	msgAccessDenied       = "можно менять только свое расписание"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/doctors/{doctorId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /doctors/{id}/schedule - Invalid doctor id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Kind != identity.ActorDoctor {
		h.logger.Warn("PUT /doctors/{id}/schedule - Non-doctor actor attempted to change schedule: doctor_id=%d", doctorID)
		handlers.RespondForbidden(w, msgDoctorsOnly)
		return
	}

	var req models.ReplaceScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctors/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.DoctorID = doctorID

	result, err := h.service.ReplaceSchedule(r.Context(), &req, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /doctors/{id}/schedule - Access denied: doctor_id=%d, actor=%d", doctorID, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /doctors/{id}/schedule - Invalid input: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /doctors/{id}/schedule - Failed: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /doctors/{id}/schedule - Schedule replaced: doctor_id=%d", doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
