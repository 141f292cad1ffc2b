package create_appointment

import (
	"errors"
	"net/http"

	"github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers"
	"github.com/dkorchagin/TMC-AppointmentService/internal/api/middleware"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/identity"
	createAppointment "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени"
	msgPatientsOnly       = "запись может создать только пациент"
	msgDoctorNotFound     = "врач не найден"
	msgOutOfAvailability  = "запрошенное время вне расписания врача"
	msgSlotConflict       = "выбранный слот уже занят"
	msgProvisioningFailed = "не удалось создать видеовстречу, запись не создана"
	msgDateInPast         = "дата не может быть в прошлом"
	msgDateTooFar         = "дата за пределами окна бронирования"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Kind != identity.ActorPatient {
		h.logger.Warn("POST /appointments - Non-patient actor attempted to create appointment")
		handlers.RespondForbidden(w, msgPatientsOnly)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: doctor_id=%d, patient_id=%d", req.DoctorID, actor.ID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, createAppointment.ErrOutOfAvailability):
			h.logger.Warn("POST /appointments - Out of availability: doctor_id=%d", req.DoctorID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOutOfAvailability)

		case errors.Is(err, createAppointment.ErrProvisioningFailed):
			h.logger.Error("POST /appointments - Meeting provisioning failed: doctor_id=%d, error=%v", req.DoctorID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgProvisioningFailed)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: doctor_id=%d, patient_id=%d, error=%v",
				req.DoctorID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, doctor_id=%d, patient_id=%d",
		result.AppointmentID, result.DoctorID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
