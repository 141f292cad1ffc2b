package schedule

import (
	"context"
	"fmt"

	"github.com/dkorchagin/TMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис для работы с расписанием врача
type Service struct {
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetSchedule получает недельный шаблон и настройки врача
// При первом обращении создаются дефолтные: Пн-Пт 09:00-17:00, слоты по 30 минут
func (s *Service) GetSchedule(ctx context.Context, doctorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for doctor=%d", doctorID)

	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	week, err := s.availabilityRepo.GetWeek(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get week for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	settings, err := s.availabilityRepo.GetSettings(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get settings for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(doctorID, week, settings), nil
}

// ReplaceSchedule атомарно заменяет недельный шаблон и настройки врача
// Только сам врач может менять свое расписание
// Частичный сбой не оставляет смешанного состояния - замена идет в транзакции
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest, actorDoctorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing schedule for doctor=%d by doctor=%d", req.DoctorID, actorDoctorID)

	if req.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.DoctorID != actorDoctorID {
		s.logger.Warn("ReplaceSchedule: doctor=%d attempted to change schedule of doctor=%d", actorDoctorID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	week, err := req.ToDomainWeek()
	if err != nil {
		s.logger.Warn("ReplaceSchedule: invalid week template for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	settings, err := req.ToDomainSettings()
	if err != nil {
		s.logger.Warn("ReplaceSchedule: invalid settings for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.availabilityRepo.ReplaceWeek(txCtx, req.DoctorID, week, settings)
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: failed to replace schedule for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: schedule replaced for doctor=%d", req.DoctorID)
	return models.FromDomainSchedule(req.DoctorID, week, settings), nil
}
