// Package transport содержит адаптеры киоска к серверу: REST-клиент,
// приёмник push-событий и периодические опросчики. Ядро с сетью не
// разговаривает, адаптеры лишь зовут его точки слияния.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// OptionsPatch - частичное обновление настроек, отсутствующие ключи не передаются
type OptionsPatch struct {
	AudioEnabled    *bool   `json:"audio_enabled,omitempty"`
	SpeechEnabled   *bool   `json:"speech_enabled,omitempty"`
	AlarmSound      *string `json:"alarm_sound,omitempty"`
	SpeechLanguage  *string `json:"speech_language,omitempty"`
	WeatherLocation *string `json:"weather_location,omitempty"`
}

// Client - HTTP-клиент API сервера диспетчеризации
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchIncidents возвращает полную коллекцию инцидентов
func (c *Client) FetchIncidents(ctx context.Context) ([]*models.Incident, error) {
	var incidents []*models.Incident
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/incidents", nil, &incidents); err != nil {
		return nil, fmt.Errorf("failed to fetch incidents: %w", err)
	}
	return incidents, nil
}

// FetchVehicles возвращает полную коллекцию машин
func (c *Client) FetchVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/vehicles", nil, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	return vehicles, nil
}

// FetchOptions возвращает текущие настройки оператора
func (c *Client) FetchOptions(ctx context.Context) (*models.Options, error) {
	options := &models.Options{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/options", nil, options); err != nil {
		return nil, fmt.Errorf("failed to fetch options: %w", err)
	}
	return options, nil
}

// SaveOptions отправляет частичное обновление и возвращает полный
// обновлённый объект настроек
func (c *Client) SaveOptions(ctx context.Context, patch OptionsPatch) (*models.Options, error) {
	options := &models.Options{}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/options", patch, options); err != nil {
		return nil, fmt.Errorf("failed to save options: %w", err)
	}
	return options, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
