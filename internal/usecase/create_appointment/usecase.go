package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	apptStorage "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	doctorClient "github.com/dkorchagin/TMC-AppointmentService/internal/integrations/doctordirectory"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/zoomapi"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// meetingProvisionTimeout ограничивает время ожидания провайдера видеовстреч
// Таймаут провайдера означает отказ всего бронирования - частичных записей не остается
const meetingProvisionTimeout = 15 * time.Second

// UseCase use case для создания записи на приём
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	doctorClient     DoctorDirectoryClient
	meetings         MeetingProvisioner
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	doctorClient DoctorDirectoryClient,
	meetings MeetingProvisioner,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		doctorClient:     doctorClient,
		meetings:         meetings,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверка конфликтов, выделение идентификатора, создание встречи и вставка
// выполняются в одной сериализуемой транзакции: либо персистится полностью
// обеспеченная встречей запись, либо ничего
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: doctor=%d, patient=%d, date=%s, time=%s-%s",
		req.DoctorID, req.PatientID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем врача (денормализуем имя и email в запись)
	doctor, err := uc.doctorClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAppointment: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// Переменные для хранения результата и созданной встречи
	// Идентификатор встречи нужен снаружи транзакции: при откате на COMMIT
	// встречу у провайдера необходимо подчистить
	var result *domain.Appointment
	var provisionedMeetingID string

	// 4. Выполняем операции в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем настройки расписания
		settings, err := uc.availabilityRepo.GetSettings(txCtx, req.DoctorID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}

		// 4.2. Валидация даты: не в прошлом и внутри окна бронирования
		if err := validateDate(req.Date, now, settings.LatestBookableDate(now)); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 4.3. Проверяем, что окно записи внутри окна приема врача
		week, err := uc.availabilityRepo.GetWeek(txCtx, req.DoctorID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get week template: %v", err)
			return fmt.Errorf("%w: failed to get week template: %v", ErrInternal, err)
		}

		if err := validateContainment(week.DayFor(req.Date), req.StartTime, req.EndTime); err != nil {
			uc.logger.Warn("CreateAppointment: containment check failed: %v", err)
			return err
		}

		// 4.4. Получаем активные записи на дату с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetActiveByDoctorAndDate(txCtx, req.DoctorID, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 4.5. Проверяем пересечение с существующими записями
		for _, appt := range appointments {
			if appt.Overlaps(req.StartTime, req.EndTime) {
				uc.logger.Warn("CreateAppointment: slot %s-%s conflicts with appointment %s",
					req.StartTime, req.EndTime, appt.AppointmentID)
				return ErrSlotConflict
			}
		}

		// 4.6. Выделяем публичный идентификатор
		appointmentID, err := uc.allocateAppointmentID(txCtx)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to allocate appointment id: %v", err)
			return err
		}

		// 4.7. Создаем видеовстречу у провайдера
		duration, err := durationMinutes(req.StartTime, req.EndTime)
		if err != nil {
			return fmt.Errorf("%w: failed to compute duration: %v", ErrInternal, err)
		}

		meeting, err := uc.provisionMeeting(txCtx, doctor, req, appointmentID, duration)
		if err != nil {
			uc.logger.Error("CreateAppointment: meeting provisioning failed: %v", err)
			return fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
		}
		provisionedMeetingID = meeting.MeetingID

		// 4.8. Сохраняем запись
		appt := &domain.Appointment{
			AppointmentID:   appointmentID,
			DoctorID:        req.DoctorID,
			DoctorName:      doctor.FullName,
			DoctorEmail:     doctor.Email,
			PatientID:       req.PatientID,
			PatientName:     req.PatientName,
			PatientEmail:    req.PatientEmail,
			PatientPhone:    req.PatientPhone,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
			MeetingID:       &meeting.MeetingID,
			MeetingURL:      &meeting.JoinURL,
			MeetingPassword: &meeting.Password,
			MeetingStatus:   domain.MeetingScheduled,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, apptStorage.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot taken at insert time (constraint)")
				return ErrSlotConflict
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Встреча могла быть создана до провала вставки или отката на COMMIT -
		// подчищаем ее у провайдера, чтобы не оставлять встречу без записи
		if provisionedMeetingID != "" {
			uc.cleanupMeeting(ctx, provisionedMeetingID)
		}

		// Провал сериализации - конкурентное бронирование выиграло гонку за слот
		if apptStorage.IsSerializationFailure(err) {
			uc.logger.Warn("CreateAppointment: serialization failure at commit, treating as slot conflict")
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: created appointment %s for doctor=%d, patient=%d",
		result.AppointmentID, result.DoctorID, result.PatientID)

	return &Response{
		AppointmentID:   result.AppointmentID,
		DoctorID:        result.DoctorID,
		DoctorName:      result.DoctorName,
		PatientID:       result.PatientID,
		Date:            result.AppointmentDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		Status:          string(result.Status),
		MeetingURL:      result.MeetingURL,
		MeetingPassword: result.MeetingPassword,
		MeetingStatus:   string(result.MeetingStatus),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// provisionMeeting создает встречу у провайдера с ограниченным таймаутом
func (uc *UseCase) provisionMeeting(
	ctx context.Context,
	doctor *doctorClient.Doctor,
	req *Request,
	appointmentID string,
	duration int,
) (*zoomapi.Meeting, error) {
	provisionCtx, cancel := context.WithTimeout(ctx, meetingProvisionTimeout)
	defer cancel()

	startUTC, err := meetingStartUTC(req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}

	return uc.meetings.CreateMeeting(provisionCtx, zoomapi.CreateMeetingRequest{
		Topic:           fmt.Sprintf("Appointment %s: %s / %s", appointmentID, doctor.FullName, req.PatientName),
		StartTimeUTC:    startUTC,
		DurationMinutes: duration,
		HostEmail:       doctor.Email,
		ParticipantMail: req.PatientEmail,
	})
}

// cleanupMeeting удаляет встречу после неудачной вставки записи
// Ошибка удаления только логируется - встреча без записи безвредна
func (uc *UseCase) cleanupMeeting(ctx context.Context, meetingID string) {
	cleanupCtx, cancel := context.WithTimeout(ctx, meetingProvisionTimeout)
	defer cancel()

	if err := uc.meetings.DeleteMeeting(cleanupCtx, meetingID); err != nil {
		uc.logger.Warn("CreateAppointment: failed to cleanup meeting id=%s: %v", meetingID, err)
	}
}

// durationMinutes возвращает длительность окна [start, end) в минутах
func durationMinutes(start, end types.TimeString) (int, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return 0, err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return 0, err
	}
	return endMin - startMin, nil
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
