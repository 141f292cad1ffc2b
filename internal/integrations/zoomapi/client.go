package zoomapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dkorchagin/TMC-AppointmentService/internal/domain"
)

const (
	defaultBaseURL  = "https://api.zoom.us/v2"
	defaultTokenURL = "https://zoom.us/oauth/token"

	// Токен обновляем за 5 минут до истечения
	tokenRefreshMargin = 5 * time.Minute

	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Client клиент Zoom API с OAuth 2.0 (account_credentials flow)
type Client struct {
	clientID     string
	clientSecret string
	accountID    string
	baseURL      string
	tokenURL     string
	httpClient   *http.Client
	log          Logger

	// Кэш OAuth токена
	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient создает новый экземпляр клиента Zoom API
func NewClient(clientID, clientSecret, accountID string, timeout time.Duration, log Logger) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		accountID:    accountID,
		baseURL:      defaultBaseURL,
		tokenURL:     defaultTokenURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NewClientWithBaseURL создает клиент с переопределенными URL (для тестов)
func NewClientWithBaseURL(clientID, clientSecret, accountID, baseURL, tokenURL string, timeout time.Duration, log Logger) *Client {
	c := NewClient(clientID, clientSecret, accountID, timeout, log)
	c.baseURL = baseURL
	c.tokenURL = tokenURL
	return c
}

// CreateMeeting создает запланированную встречу и возвращает её описание
func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) (*Meeting, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := createMeetingBody{
		Topic:     req.Topic,
		Type:      2,
		StartTime: req.StartTimeUTC,
		Duration:  req.DurationMinutes,
		Timezone:  "UTC",
		Password:  generatePassword(domain.MeetingPasswordLength),
		Settings: meetingSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   false,
			MuteUponEntry:    true,
			WaitingRoom:      true,
			AutoRecording:    "none",
			AlternativeHosts: req.ParticipantMail,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMeeting - marshal body: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/users/me/meetings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMeeting - create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMeeting - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: CreateMeeting - unexpected status code %d: %s",
			ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var details meetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("%w: CreateMeeting - decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Created Zoom meeting: id=%d", details.ID)

	return &Meeting{
		MeetingID: fmt.Sprintf("%d", details.ID),
		JoinURL:   details.JoinURL,
		Password:  details.Password,
		StartURL:  details.StartURL,
	}, nil
}

// UpdateMeeting обновляет время начала и длительность существующей встречи
func (c *Client) UpdateMeeting(ctx context.Context, meetingID string, startTimeUTC string, durationMinutes int) error {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(updateMeetingBody{
		StartTime: startTimeUTC,
		Duration:  durationMinutes,
	})
	if err != nil {
		return fmt.Errorf("%w: UpdateMeeting - marshal body: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/meetings/"+url.PathEscape(meetingID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: UpdateMeeting - create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: UpdateMeeting - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		c.log.Info("Updated Zoom meeting: id=%s", meetingID)
		return nil
	case http.StatusNotFound:
		return ErrMeetingNotFound
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: UpdateMeeting - unexpected status code %d: %s",
			ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// DeleteMeeting удаляет встречу
// Идемпотентна: повторное удаление (404 от провайдера) не считается ошибкой
func (c *Client) DeleteMeeting(ctx context.Context, meetingID string) error {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/meetings/"+url.PathEscape(meetingID), nil)
	if err != nil {
		return fmt.Errorf("%w: DeleteMeeting - create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: DeleteMeeting - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		c.log.Info("Deleted Zoom meeting: id=%s", meetingID)
		return nil
	case http.StatusNotFound:
		// Уже удалена - для вызывающего кода результат тот же
		c.log.Warn("Zoom meeting id=%s already deleted", meetingID)
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: DeleteMeeting - unexpected status code %d: %s",
			ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// getAccessToken возвращает кэшированный OAuth токен или запрашивает новый
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.accountID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: create token request: %v", ErrAuthFailed, err)
	}
	httpReq.Header.Set("Authorization", "Basic "+c.basicAuth())
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: execute token request: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrAuthFailed, resp.StatusCode, string(respBody))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrAuthFailed, err)
	}

	if token.ExpiresIn == 0 {
		token.ExpiresIn = 3600
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenRefreshMargin)

	return c.accessToken, nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
}

// generatePassword генерирует пароль встречи из букв и цифр
func generatePassword(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = passwordAlphabet[rand.Intn(len(passwordAlphabet))]
	}
	return string(b)
}
