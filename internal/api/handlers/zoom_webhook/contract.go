package zoom_webhook

import "context"

// MeetingEventService интерфейс обработчика событий видеовстреч
type MeetingEventService interface {
	HandleMeetingStarted(ctx context.Context, meetingID string) error
	HandleParticipantJoined(ctx context.Context, meetingID, email string) error
	HandleParticipantLeft(ctx context.Context, meetingID, email string) error
	HandleMeetingEnded(ctx context.Context, meetingID string, durationMinutes *int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
