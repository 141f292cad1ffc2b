package domain

import "github.com/dkorchagin/TMC-AppointmentService/pkg/types"

// Slot кандидат на запись: временное окно в расписании врача
// Не персистится - генерируется на лету и сразу отдается клиенту
type Slot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}
