package meetingevents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
)

// Service применяет webhook-события провайдера к состоянию встречи
// Все обработчики идемпотентны и терпимы к неизвестному meeting_id:
// встреча могла принадлежать уже удаленной записи
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса событий встреч
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// HandleMeetingStarted помечает встречу начавшейся
// Событие после терминального состояния игнорируется - провайдер может
// доставлять события с опозданием и не по порядку
func (s *Service) HandleMeetingStarted(ctx context.Context, meetingID string) error {
	return s.apply(ctx, meetingID, "meeting.started", func(txCtx context.Context, appt *domain.Appointment) error {
		if appt.MeetingTerminal() {
			s.logger.Warn("HandleMeetingStarted: meeting id=%s already terminal (%s), ignoring",
				meetingID, appt.MeetingStatus)
			return nil
		}
		if appt.MeetingStatus == domain.MeetingStarted {
			return nil
		}

		return s.appointmentRepo.UpdateMeetingState(txCtx, appt.ID, apptStorage.MeetingStateUpdate{
			MeetingStatus: ptr.Ptr(domain.MeetingStarted),
		})
	})
}

// HandleParticipantJoined отмечает присоединение участника
// Участник сопоставляется по email: врач -> host_joined, пациент -> client_joined
// Неопознанные участники игнорируются
func (s *Service) HandleParticipantJoined(ctx context.Context, meetingID, email string) error {
	return s.apply(ctx, meetingID, "meeting.participant_joined", func(txCtx context.Context, appt *domain.Appointment) error {
		joined := strings.ToLower(strings.TrimSpace(email))

		update := apptStorage.MeetingStateUpdate{}
		switch joined {
		case strings.ToLower(appt.DoctorEmail):
			if appt.HostJoined {
				return nil
			}
			update.HostJoined = ptr.Ptr(true)
		case strings.ToLower(appt.PatientEmail):
			if appt.ClientJoined {
				return nil
			}
			update.ClientJoined = ptr.Ptr(true)
		default:
			s.logger.Warn("HandleParticipantJoined: unmatched participant %q for meeting id=%s", email, meetingID)
			return nil
		}

		return s.appointmentRepo.UpdateMeetingState(txCtx, appt.ID, update)
	})
}

// HandleParticipantLeft не меняет состояние
// Итоговая посещаемость определяется при meeting.ended
func (s *Service) HandleParticipantLeft(ctx context.Context, meetingID, email string) error {
	s.logger.Info("HandleParticipantLeft: participant %q left meeting id=%s", email, meetingID)
	return nil
}

// HandleMeetingEnded завершает встречу
// Оба участника были -> completed, запись тоже completed
// Иначе missed, статус записи не меняется
func (s *Service) HandleMeetingEnded(ctx context.Context, meetingID string, durationMinutes *int) error {
	return s.apply(ctx, meetingID, "meeting.ended", func(txCtx context.Context, appt *domain.Appointment) error {
		if appt.MeetingTerminal() {
			s.logger.Warn("HandleMeetingEnded: meeting id=%s already terminal (%s), ignoring",
				meetingID, appt.MeetingStatus)
			return nil
		}

		update := apptStorage.MeetingStateUpdate{
			DurationMinutes: durationMinutes,
		}

		if appt.HostJoined && appt.ClientJoined {
			update.MeetingStatus = ptr.Ptr(domain.MeetingCompleted)
			update.AppointmentStatus = ptr.Ptr(domain.StatusCompleted)
		} else {
			update.MeetingStatus = ptr.Ptr(domain.MeetingMissed)
		}

		return s.appointmentRepo.UpdateMeetingState(txCtx, appt.ID, update)
	})
}

// apply загружает запись по meeting_id и применяет мутацию в транзакции
// Неизвестный meeting_id - это no-op, а не ошибка
func (s *Service) apply(ctx context.Context, meetingID, event string, fn func(ctx context.Context, appt *domain.Appointment) error) error {
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByMeetingID(txCtx, meetingID)
		if err != nil {
			if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
				s.logger.Warn("%s: unknown meeting id=%s, skipping", event, meetingID)
				return nil
			}
			s.logger.Error("%s: failed to get appointment by meeting id=%s: %v", event, meetingID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, event, err)
		}

		if err := fn(txCtx, appt); err != nil {
			s.logger.Error("%s: failed to apply event for meeting id=%s: %v", event, meetingID, err)
			return fmt.Errorf("%w: %s - apply error: %v", ErrInternal, event, err)
		}

		s.logger.Info("%s: applied for appointment %s (meeting id=%s)", event, appt.AppointmentID, meetingID)
		return nil
	})
}
