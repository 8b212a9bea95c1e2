package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewClient(serverURL, "test-api-key", 2*time.Second, logger)
}

func TestFetchIncidents_Success(t *testing.T) {
	// Подготовка
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/incidents", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-API-Key"))
		json.NewEncoder(w).Encode([]*models.Incident{
			{ID: 1, Title: "Brand", Status: models.IncidentStatusActive},
		})
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	// Действие
	incidents, err := client.FetchIncidents(context.Background())

	// Проверки
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "Brand", incidents[0].Title)
}

func TestFetchIncidents_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	incidents, err := client.FetchIncidents(context.Background())

	require.Error(t, err)
	assert.Nil(t, incidents)
	assert.ErrorContains(t, err, "status 500")
}

func TestFetchVehicles_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/vehicles", r.URL.Path)
		json.NewEncoder(w).Encode([]*models.Vehicle{
			{ID: 1, Name: "LF 10", Status: models.VehicleStatusAvailable},
			{ID: 2, Name: "DLK 23", Status: models.VehicleStatusUnavailable},
		})
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	vehicles, err := client.FetchVehicles(context.Background())

	require.NoError(t, err)
	assert.Len(t, vehicles, 2)
}

func TestSaveOptions_SendsPatchAndDecodesFullObject(t *testing.T) {
	// Подготовка: сервер проверяет, что в PATCH ушли только заданные ключи
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/options", r.URL.Path)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "speech_enabled")
		assert.NotContains(t, raw, "audio_enabled")

		json.NewEncoder(w).Encode(models.Options{
			AudioEnabled:    true,
			SpeechEnabled:   false,
			AlarmSound:      "gong1.mp3",
			SpeechLanguage:  "de-DE",
			WeatherLocation: "Berlin",
		})
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	speechEnabled := false
	options, err := client.SaveOptions(context.Background(), OptionsPatch{SpeechEnabled: &speechEnabled})

	require.NoError(t, err)
	assert.False(t, options.SpeechEnabled)
	assert.Equal(t, "Berlin", options.WeatherLocation)
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		name      string
		serverURL string
		want      string
		wantErr   bool
	}{
		{name: "http", serverURL: "http://localhost:8080", want: "ws://localhost:8080/ws"},
		{name: "https", serverURL: "https://dashboard.example.com", want: "wss://dashboard.example.com/ws"},
		{name: "trailing slash", serverURL: "http://localhost:8080/", want: "ws://localhost:8080/ws"},
		{name: "unsupported scheme", serverURL: "ftp://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := websocketURL(tt.serverURL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
