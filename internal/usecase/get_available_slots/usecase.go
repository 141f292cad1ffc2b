package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	doctorClient "github.com/dkorchagin/TMC-AppointmentService/internal/integrations/doctordirectory"
)

// UseCase use case для получения доступных слотов записи к врачу
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	doctorClient     DoctorDirectoryClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	doctorClient DoctorDirectoryClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		doctorClient:     doctorClient,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s",
		req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что врач существует
	if _, err := uc.doctorClient.GetDoctor(ctx, req.DoctorID); err != nil {
		if errors.Is(err, doctorClient.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Получаем настройки расписания (создаются лениво с дефолтами)
	settings, err := uc.availabilityRepo.GetSettings(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings for doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 5. Валидация даты: не в прошлом и внутри окна бронирования
	if err := validateDate(req.Date, now, settings.LatestBookableDate(now)); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 6. Получаем недельный шаблон и выбираем день
	week, err := uc.availabilityRepo.GetWeek(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get week template for doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get week template: %v", ErrInternal, err)
	}

	day := week.DayFor(req.Date)
	if !day.IsAvailable {
		uc.logger.Info("GetAvailableSlots: doctor id=%d is not available on %s",
			req.DoctorID, req.Date.Weekday())
		return nil, ErrNotAvailableThisDay
	}

	// 7. Получаем активные записи на эту дату
	appointments, err := uc.appointmentRepo.GetActiveByDoctorAndDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 8. Генерируем слоты с флагами доступности
	slots, err := generateDaySlots(day, settings, appointments)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for doctor=%d, date=%s",
		len(slots), req.DoctorID, req.Date.Format(domain.DateFormat))

	return &Response{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Weekday:  req.Date.Weekday().String(),
		Slots:    slots,
	}, nil
}
