// Package weather показывает текущую погоду для настроенного населённого
// пункта: геокодирование через Nominatim, условия через Open-Meteo.
// Погода - украшение панели, любая ошибка здесь не фатальна.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	nominatimURL = "https://nominatim.openstreetmap.org/search"
	openMeteoURL = "https://api.open-meteo.com/v1/forecast"
	userAgent    = "dispatch-dashboard-kiosk/1.0"
)

// Report - снимок погоды для отрисовки на панели
type Report struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type coordinates struct {
	Latitude  float64
	Longitude float64
}

// Client периодически обновляет погоду. Координаты населённого пункта
// кешируются, Nominatim вызывается только при смене локации.
type Client struct {
	httpClient *http.Client
	interval   time.Duration
	logger     *logrus.Logger

	mu       sync.Mutex
	location string
	coords   map[string]coordinates
	current  *Report
	wake     chan struct{}
}

func NewClient(timeout, interval time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		interval:   interval,
		logger:     logger,
		coords:     map[string]coordinates{},
		wake:       make(chan struct{}, 1),
	}
}

// SetLocation меняет населённый пункт и будит цикл обновления
func (c *Client) SetLocation(location string) {
	c.mu.Lock()
	changed := c.location != location
	c.location = location
	if changed {
		c.current = nil
	}
	c.mu.Unlock()

	if changed {
		select {
		case c.wake <- struct{}{}:
		default:
		}
	}
}

// Current возвращает последний снимок погоды, nil пока погода неизвестна
func (c *Client) Current() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	report := *c.current
	return &report
}

// Run обновляет погоду по таймеру до отмены контекста
func (c *Client) Run(ctx context.Context) {
	c.logger.Info("Starting weather updates...")
	c.refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		case <-c.wake:
			c.refresh(ctx)
		}
	}
}

func (c *Client) refresh(ctx context.Context) {
	c.mu.Lock()
	location := c.location
	c.mu.Unlock()
	if location == "" {
		return
	}

	coords, err := c.geocode(ctx, location)
	if err != nil {
		c.logger.WithError(err).WithField("location", location).Warn("Weather geocoding failed")
		return
	}

	report, err := c.fetchConditions(ctx, location, coords)
	if err != nil {
		c.logger.WithError(err).WithField("location", location).Warn("Weather fetch failed")
		return
	}

	c.mu.Lock()
	// Локация могла смениться, пока шёл запрос
	if c.location == location {
		c.current = report
	}
	c.mu.Unlock()
}

// geocode переводит название населённого пункта в координаты, результат кешируется
func (c *Client) geocode(ctx context.Context, location string) (coordinates, error) {
	c.mu.Lock()
	coords, ok := c.coords[location]
	c.mu.Unlock()
	if ok {
		return coords, nil
	}

	query := url.Values{}
	query.Set("q", location)
	query.Set("format", "json")
	query.Set("limit", "1")

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.getJSON(ctx, nominatimURL+"?"+query.Encode(), &results); err != nil {
		return coordinates{}, err
	}
	if len(results) == 0 {
		return coordinates{}, fmt.Errorf("location %q not found", location)
	}

	var lat, lon float64
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return coordinates{}, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &lon); err != nil {
		return coordinates{}, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	coords = coordinates{Latitude: lat, Longitude: lon}
	c.mu.Lock()
	c.coords[location] = coords
	c.mu.Unlock()
	return coords, nil
}

func (c *Client) fetchConditions(ctx context.Context, location string, coords coordinates) (*Report, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", coords.Latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", coords.Longitude))
	query.Set("current_weather", "true")

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := c.getJSON(ctx, openMeteoURL+"?"+query.Encode(), &payload); err != nil {
		return nil, err
	}

	return &Report{
		Location:    location,
		Temperature: payload.CurrentWeather.Temperature,
		Condition:   conditionText(payload.CurrentWeather.WeatherCode),
		UpdatedAt:   time.Now(),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// conditionText переводит WMO-код погоды в текст для панели
func conditionText(code int) string {
	switch {
	case code == 0:
		return "Klar"
	case code <= 3:
		return "Bewölkt"
	case code == 45 || code == 48:
		return "Nebel"
	case code >= 51 && code <= 57:
		return "Nieselregen"
	case code >= 61 && code <= 67:
		return "Regen"
	case code >= 71 && code <= 77:
		return "Schneefall"
	case code >= 80 && code <= 82:
		return "Regenschauer"
	case code == 85 || code == 86:
		return "Schneeschauer"
	case code >= 95:
		return "Gewitter"
	default:
		return "Unbekannt"
	}
}
