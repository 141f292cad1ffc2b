package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/dkorchagin/TMC-AppointmentService/internal/service/appointments/models"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
)

// meetingDeleteTimeout ограничивает время ожидания провайдера при отмене
const meetingDeleteTimeout = 15 * time.Second

// Service сервис для работы с записями на приём
type Service struct {
	appointmentRepo AppointmentRepository
	meetings        MeetingProvisioner
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	meetings MeetingProvisioner,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		meetings:        meetings,
		logger:          logger,
	}
}

// GetByAppointmentID получает запись по публичному идентификатору
// Пациент видит только свою запись, врач - только запись к себе
func (s *Service) GetByAppointmentID(ctx context.Context, appointmentID string, actor models.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByAppointmentID: fetching appointment %s for %s=%d", appointmentID, actor.Kind, actor.ID)

	appt, err := s.fetch(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetMeetingStatus получает состояние видеовстречи записи
func (s *Service) GetMeetingStatus(ctx context.Context, appointmentID string, actor models.Actor) (*models.MeetingStatusResponse, error) {
	s.logger.Info("GetMeetingStatus: fetching meeting for appointment %s, %s=%d", appointmentID, actor.Kind, actor.ID)

	appt, err := s.fetch(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	if !appt.HasMeeting() {
		s.logger.Warn("GetMeetingStatus: appointment %s has no meeting", appointmentID)
		return nil, ErrMeetingNotFound
	}

	return models.FromDomainMeeting(appt), nil
}

// Cancel отменяет запись и best-effort удаляет видеовстречу у провайдера
// Ошибка удаления встречи логируется и не блокирует отмену
func (s *Service) Cancel(ctx context.Context, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment %s by %s=%d", req.AppointmentID, req.Actor.Kind, req.Actor.ID)

	if len(req.Reason) > domain.MaxCancellationReasonLen {
		s.logger.Warn("Cancel: reason too long for appointment %s", req.AppointmentID)
		return nil, fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLen)
	}

	appt, err := s.fetch(ctx, req.AppointmentID, req.Actor)
	if err != nil {
		return nil, err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment %s has status %s, cannot cancel", appt.AppointmentID, appt.Status)
		return nil, ErrCannotCancel
	}

	notes := appendCancelReason(appt, req.Reason)

	if err := s.appointmentRepo.Cancel(ctx, appt.ID, notes); err != nil {
		s.logger.Error("Cancel: repository error for appointment %s: %v", appt.AppointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	appt.Status = domain.StatusCancelled
	appt.Notes = notes

	// Состояние встречи в записи не трогаем - терминальность определяют webhook-события
	s.deleteMeeting(ctx, appt)

	s.logger.Info("Cancel: appointment %s cancelled", appt.AppointmentID)
	return models.FromDomainAppointment(appt), nil
}

// fetch загружает запись и проверяет права доступа субъекта
func (s *Service) fetch(ctx context.Context, appointmentID string, actor models.Actor) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
			s.logger.Warn("fetch: appointment %s not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("fetch: repository error for appointment %s: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: fetch - repository error: %v", ErrInternal, err)
	}

	if err := checkAccess(appt, actor); err != nil {
		s.logger.Warn("fetch: access denied for %s=%d to appointment %s", actor.Kind, actor.ID, appointmentID)
		return nil, err
	}

	return appt, nil
}

// deleteMeeting удаляет встречу у провайдера
// Повторное удаление идемпотентно на стороне клиента провайдера
func (s *Service) deleteMeeting(ctx context.Context, appt *domain.Appointment) {
	if !appt.HasMeeting() {
		return
	}

	deleteCtx, cancel := context.WithTimeout(ctx, meetingDeleteTimeout)
	defer cancel()

	if err := s.meetings.DeleteMeeting(deleteCtx, *appt.MeetingID); err != nil {
		s.logger.Warn("deleteMeeting: failed to delete meeting id=%s: %v", *appt.MeetingID, err)
	}
}

// checkAccess проверяет, что субъект имеет отношение к записи
func checkAccess(appt *domain.Appointment, actor models.Actor) error {
	switch actor.Kind {
	case models.ActorDoctor:
		if appt.DoctorID == actor.ID {
			return nil
		}
	case models.ActorPatient:
		if appt.PatientID == actor.ID {
			return nil
		}
	}
	return ErrAccessDenied
}

// appendCancelReason добавляет причину отмены к заметкам записи
func appendCancelReason(appt *domain.Appointment, reason string) *string {
	if reason == "" {
		return appt.Notes
	}

	line := "Cancelled: " + reason
	if appt.Notes == nil || *appt.Notes == "" {
		return ptr.Ptr(line)
	}
	return ptr.Ptr(*appt.Notes + "\n" + line)
}
