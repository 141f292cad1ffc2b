package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/TMC-AppointmentService/internal/api/middleware"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/identity"
	createAppointment "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type mockUseCase struct {
	req  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	m.req = req
	return m.resp, m.err
}

type stubVerifier struct {
	actor identity.Actor
}

func (s stubVerifier) VerifyActor(token string) (identity.Actor, error) {
	return s.actor, nil
}

// serveAs прогоняет запрос через Auth middleware, чтобы субъект попал в контекст
func serveAs(t *testing.T, handler *Handler, actor identity.Actor, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	wrapped := middleware.Auth(stubVerifier{actor: actor}, nopLogger{})(http.HandlerFunc(handler.Handle))
	wrapped.ServeHTTP(rec, req)
	return rec
}

func validBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(CreateAppointmentRequest{
		DoctorID:     1,
		Date:         "2026-09-07",
		StartTime:    "10:00",
		EndTime:      "10:30",
		PatientName:  "Ivan Petrov",
		PatientEmail: "ivan@example.com",
	})
	require.NoError(t, err)
	return body
}

var patientActor = identity.Actor{Kind: identity.ActorPatient, ID: 7}

func TestHandler_Success(t *testing.T) {
	uc := &mockUseCase{
		resp: &createAppointment.Response{
			AppointmentID: "A1B2C3",
			DoctorID:      1,
			DoctorName:    "Dr. House",
			PatientID:     7,
			Date:          time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			StartTime:     "10:00",
			EndTime:       "10:30",
			Status:        "confirmed",
			MeetingURL:    ptr.Ptr("https://zoom.example/j/981234567"),
			MeetingStatus: "scheduled",
			CreatedAt:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	handler := NewHandler(uc, nopLogger{})

	rec := serveAs(t, handler, patientActor, validBody(t))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A1B2C3", resp.AppointmentID)
	assert.Equal(t, "2026-09-07", resp.Date)

	// PatientID берется из токена, а не из тела
	require.NotNil(t, uc.req)
	assert.Equal(t, int64(7), uc.req.PatientID)
}

func TestHandler_DoctorForbidden(t *testing.T) {
	uc := &mockUseCase{}
	handler := NewHandler(uc, nopLogger{})

	rec := serveAs(t, handler, identity.Actor{Kind: identity.ActorDoctor, ID: 1}, validBody(t))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, uc.req, "use case must not be invoked for non-patient actor")
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		useCaseErr error
		wantStatus int
	}{
		{name: "slot conflict", useCaseErr: createAppointment.ErrSlotConflict, wantStatus: http.StatusConflict},
		{name: "doctor not found", useCaseErr: createAppointment.ErrDoctorNotFound, wantStatus: http.StatusNotFound},
		{name: "out of availability", useCaseErr: createAppointment.ErrOutOfAvailability, wantStatus: http.StatusUnprocessableEntity},
		{name: "provisioning failed", useCaseErr: createAppointment.ErrProvisioningFailed, wantStatus: http.StatusBadGateway},
		{name: "date in past", useCaseErr: createAppointment.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "date too far", useCaseErr: createAppointment.ErrDateTooFarInFuture, wantStatus: http.StatusBadRequest},
		{name: "invalid input", useCaseErr: createAppointment.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", useCaseErr: createAppointment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockUseCase{err: tt.useCaseErr}, nopLogger{})
			rec := serveAs(t, handler, patientActor, validBody(t))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_BadBody(t *testing.T) {
	handler := NewHandler(&mockUseCase{}, nopLogger{})

	tests := []struct {
		name string
		body []byte
	}{
		{name: "not json", body: []byte("{oops")},
		{name: "unknown field", body: []byte(`{"doctorId":1,"patientId":99}`)},
		{name: "bad date format", body: []byte(`{"doctorId":1,"date":"07.09.2026","startTime":"10:00","endTime":"10:30","patientName":"I","patientEmail":"i@e.com"}`)},
		{name: "bad time format", body: []byte(`{"doctorId":1,"date":"2026-09-07","startTime":"10am","endTime":"11am","patientName":"I","patientEmail":"i@e.com"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveAs(t, handler, patientActor, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
