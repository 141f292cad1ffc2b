package zoomapi

import "github.com/dkorchagin/TMC-AppointmentService/pkg/types"

// Meeting описание созданной видеовстречи
type Meeting struct {
	MeetingID string `json:"meeting_id"`
	JoinURL   string `json:"join_url"`
	Password  string `json:"password"`
	StartURL  string `json:"start_url"`
}

// CreateMeetingRequest параметры создания встречи
type CreateMeetingRequest struct {
	Topic           string
	StartTimeUTC    string // "2006-01-02T15:04:05"
	DurationMinutes int
	HostEmail       string
	ParticipantMail string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// tokenResponse ответ OAuth endpoint
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// meetingResponse ответ Zoom API при создании встречи
type meetingResponse struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	Password string `json:"password"`
	StartURL string `json:"start_url"`
}

// meetingSettings настройки встречи для Zoom API
type meetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	WaitingRoom      bool   `json:"waiting_room"`
	AutoRecording    string `json:"auto_recording"`
	AlternativeHosts string `json:"alternative_hosts,omitempty"`
}

// createMeetingBody тело запроса создания встречи
type createMeetingBody struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"` // 2 = запланированная встреча
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Password  string          `json:"password"`
	Settings  meetingSettings `json:"settings"`
}

// updateMeetingBody тело запроса обновления встречи
type updateMeetingBody struct {
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

// MeetingWindow окно встречи для обновления при переносе записи
type MeetingWindow struct {
	Date  string // "2006-01-02"
	Start types.TimeString
}
