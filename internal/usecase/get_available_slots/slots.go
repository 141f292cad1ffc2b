package get_available_slots

import (
	"errors"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/types"
)

// generateDaySlots генерирует упорядоченный список слотов на день
// Слоты идут от начала окна приема с шагом slot_duration + buffer
// Генерация останавливается, когда конец следующего слота выходит за окно приема
// или за границу суток (24:00) - слот не обрезается, а просто не создается
func generateDaySlots(
	day domain.DayTemplate,
	settings domain.AvailabilitySettings,
	appointments []*domain.Appointment,
) ([]domain.Slot, error) {
	if !day.IsAvailable {
		return nil, ErrNotAvailableThisDay
	}

	step := settings.SlotStepMinutes()
	slots := make([]domain.Slot, 0)
	current := day.StartTime

	for current.IsBefore(day.EndTime) {
		slotEnd, err := current.AddMinutes(settings.SlotDurationMinutes)
		if err != nil {
			// Достигли границы суток - дальше слотов нет
			if errors.Is(err, types.ErrTimeOverflow) {
				break
			}
			return nil, err
		}
		if slotEnd.IsAfter(day.EndTime) {
			break
		}

		slots = append(slots, domain.Slot{
			StartTime:   current,
			EndTime:     slotEnd,
			IsAvailable: !hasOverlap(current, slotEnd, appointments),
		})

		current, err = current.AddMinutes(step)
		if err != nil {
			if errors.Is(err, types.ErrTimeOverflow) {
				break
			}
			return nil, err
		}
	}

	return slots, nil
}

// hasOverlap проверяет, пересекается ли слот хотя бы с одной активной записью
// Интервалы полуоткрытые [start, end): граничащие записи пересечением не считаются
// Первое найденное пересечение сразу дает результат
func hasOverlap(slotStart, slotEnd types.TimeString, appointments []*domain.Appointment) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(slotStart, slotEnd) {
			return true
		}
	}
	return false
}
