package reschedule_appointment

import (
	"fmt"
	"regexp"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

var appointmentIDPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !appointmentIDPattern.MatchString(req.AppointmentID) {
		return fmt.Errorf("%w: appointmentID must be 6 uppercase hex characters", ErrInvalidInput)
	}

	if req.Actor.Kind != ActorDoctor && req.Actor.Kind != ActorPatient {
		return fmt.Errorf("%w: unknown actor kind", ErrInvalidInput)
	}

	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}

	if req.Status != nil {
		target := domain.AppointmentStatus(*req.Status)
		if target != domain.StatusPending && target != domain.StatusConfirmed {
			return fmt.Errorf("%w: target status must be pending or confirmed", ErrInvalidInput)
		}
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно бронирования
func validateDate(requestDate time.Time, now time.Time, latestBookable time.Time) error {
	dateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, requestDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if dateOnly.After(latestBookable) {
		return fmt.Errorf("%w: latest bookable date is %s", ErrDateTooFarInFuture, latestBookable.Format(domain.DateFormat))
	}

	return nil
}

// validateContainment проверяет, что окно [start, end) целиком внутри окна приема врача
func validateContainment(day domain.DayTemplate, start, end types.TimeString) error {
	if !day.IsAvailable {
		return ErrOutOfAvailability
	}

	if start.IsBefore(day.StartTime) || end.IsAfter(day.EndTime) {
		return fmt.Errorf("%w: doctor accepts %s-%s on %s",
			ErrOutOfAvailability, day.StartTime, day.EndTime, day.Weekday)
	}

	return nil
}
