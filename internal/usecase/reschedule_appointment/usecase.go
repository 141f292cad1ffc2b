package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// meetingUpdateTimeout ограничивает время ожидания провайдера видеовстреч
const meetingUpdateTimeout = 15 * time.Second

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	meetings         MeetingProvisioner
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	meetings MeetingProvisioner,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		meetings:         meetings,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case переноса записи
// Обновление встречи у провайдера выполняется после коммита и не блокирует
// перенос: ошибка провайдера логируется, запись остается перенесенной
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%s, date=%s, time=%s-%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменная для хранения результата
	var result *domain.Appointment

	// 3. Выполняем операции в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем запись
		appt, err := uc.appointmentRepo.GetByAppointmentID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment %s not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment: %v", err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 3.2. Переносить запись могут только её врач или её пациент
		if err := checkAccess(appt, req.Actor); err != nil {
			uc.logger.Warn("RescheduleAppointment: access denied for %s=%d to appointment %s",
				req.Actor.Kind, req.Actor.ID, appt.AppointmentID)
			return err
		}

		// 3.3. Завершенные записи не переносятся (отмененные - можно,
		// перенос возвращает их в расписание)
		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment %s has terminal status %s",
				appt.AppointmentID, appt.Status)
			return ErrAlreadyTerminal
		}

		// 3.4. Валидация даты: не в прошлом и внутри окна бронирования
		settings, err := uc.availabilityRepo.GetSettings(txCtx, appt.DoctorID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}

		if err := validateDate(req.Date, now, settings.LatestBookableDate(now)); err != nil {
			uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
			return err
		}

		// 3.5. Проверяем, что новое окно внутри окна приема врача
		week, err := uc.availabilityRepo.GetWeek(txCtx, appt.DoctorID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get week template: %v", err)
			return fmt.Errorf("%w: failed to get week template: %v", ErrInternal, err)
		}

		if err := validateContainment(week.DayFor(req.Date), req.StartTime, req.EndTime); err != nil {
			uc.logger.Warn("RescheduleAppointment: containment check failed: %v", err)
			return err
		}

		// 3.6. Проверяем пересечения, исключая саму переносимую запись
		appointments, err := uc.appointmentRepo.GetActiveByDoctorAndDate(txCtx, appt.DoctorID, req.Date)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		for _, other := range appointments {
			if other.ID == appt.ID {
				continue
			}
			if other.Overlaps(req.StartTime, req.EndTime) {
				uc.logger.Warn("RescheduleAppointment: slot %s-%s conflicts with appointment %s",
					req.StartTime, req.EndTime, other.AppointmentID)
				return ErrSlotConflict
			}
		}

		// 3.7. Целевой статус: по умолчанию confirmed
		targetStatus := domain.StatusConfirmed
		if req.Status != nil {
			targetStatus = domain.AppointmentStatus(*req.Status)
		}

		// 3.8. Дописываем аудит переноса в notes
		notes := appendRescheduleAudit(appt, req, now)

		// 3.9. Сохраняем перенос
		if err := uc.appointmentRepo.Reschedule(txCtx, appt.ID, req.Date, req.StartTime, req.EndTime, targetStatus, notes); err != nil {
			if errors.Is(err, apptStorage.ErrSlotTaken) {
				uc.logger.Warn("RescheduleAppointment: slot taken at update time (constraint)")
				return ErrSlotConflict
			}
			uc.logger.Error("RescheduleAppointment: failed to reschedule: %v", err)
			return fmt.Errorf("%w: failed to reschedule: %v", ErrInternal, err)
		}

		appt.AppointmentDate = req.Date
		appt.StartTime = req.StartTime
		appt.EndTime = req.EndTime
		appt.Status = targetStatus
		appt.Notes = notes
		result = appt
		return nil
	})

	if err != nil {
		// Провал сериализации на COMMIT - конкурентный перенос выиграл гонку за слот
		if apptStorage.IsSerializationFailure(err) {
			uc.logger.Warn("RescheduleAppointment: serialization failure at commit, treating as slot conflict")
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	// 4. Обновляем встречу у провайдера (мягкая зависимость)
	uc.updateMeeting(ctx, result)

	uc.logger.Info("RescheduleAppointment: appointment %s moved to %s %s-%s",
		result.AppointmentID, result.AppointmentDate.Format(domain.DateFormat), result.StartTime, result.EndTime)

	return &Response{
		AppointmentID: result.AppointmentID,
		DoctorID:      result.DoctorID,
		PatientID:     result.PatientID,
		Date:          result.AppointmentDate,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		Status:        string(result.Status),
		MeetingURL:    result.MeetingURL,
		MeetingStatus: string(result.MeetingStatus),
		Notes:         result.Notes,
	}, nil
}

// updateMeeting переносит встречу у провайдера
// Ошибка только логируется - перенос записи уже состоялся
func (uc *UseCase) updateMeeting(ctx context.Context, appt *domain.Appointment) {
	if !appt.HasMeeting() {
		return
	}

	updateCtx, cancel := context.WithTimeout(ctx, meetingUpdateTimeout)
	defer cancel()

	startUTC, err := meetingStartUTC(appt.AppointmentDate, appt.StartTime)
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to build meeting start time: %v", err)
		return
	}

	if err := uc.meetings.UpdateMeeting(updateCtx, *appt.MeetingID, startUTC, appt.DurationMinutes()); err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to update meeting id=%s: %v", *appt.MeetingID, err)
	}
}

// checkAccess проверяет, что субъект имеет отношение к записи
func checkAccess(appt *domain.Appointment, actor Actor) error {
	switch actor.Kind {
	case ActorDoctor:
		if appt.DoctorID == actor.ID {
			return nil
		}
	case ActorPatient:
		if appt.PatientID == actor.ID {
			return nil
		}
	}
	return ErrAccessDenied
}

// appendRescheduleAudit добавляет строку аудита переноса к заметкам записи
func appendRescheduleAudit(appt *domain.Appointment, req *Request, now time.Time) *string {
	line := fmt.Sprintf("Rescheduled from %s %s-%s to %s %s-%s at %s",
		appt.AppointmentDate.Format(domain.DateFormat), appt.StartTime, appt.EndTime,
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime,
		now.UTC().Format(time.RFC3339))

	if appt.Notes == nil || *appt.Notes == "" {
		return ptr.Ptr(line)
	}
	return ptr.Ptr(*appt.Notes + "\n" + line)
}

// meetingStartUTC собирает момент начала встречи в формате провайдера
func meetingStartUTC(date time.Time, start types.TimeString) (string, error) {
	minutes, err := start.Minutes()
	if err != nil {
		return "", err
	}

	startAt := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, time.UTC)
	return startAt.Format("2006-01-02T15:04:05Z"), nil
}
