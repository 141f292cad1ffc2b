package get_available_slots

import (
	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
	getSlots "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	StartTime   string `json:"startTime"` // "10:00"
	EndTime     string `json:"endTime"`   // "10:30"
	IsAvailable bool   `json:"isAvailable"`
}

// SlotsResponse HTTP модель ответа со слотами на день
type SlotsResponse struct {
	DoctorID int64          `json:"doctorId"`
	Date     string         `json:"date"` // "2026-09-15"
	Weekday  string         `json:"weekday"`
	Slots    []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:   slot.StartTime.String(),
			EndTime:     slot.EndTime.String(),
			IsAvailable: slot.IsAvailable,
		})
	}

	return &SlotsResponse{
		DoctorID: resp.DoctorID,
		Date:     resp.Date.Format(domain.DateFormat),
		Weekday:  resp.Weekday,
		Slots:    slots,
	}
}
