package kiosk

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/events"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alarm"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alert"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intentRecorder собирает намерения, отправленные движком
type intentRecorder struct {
	mu      sync.Mutex
	intents []alert.Intent
}

func (r *intentRecorder) Enqueue(intent alert.Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
}

func (r *intentRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.intents)
}

func (r *intentRecorder) last() alert.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intents[len(r.intents)-1]
}

func newTestEngine(t *testing.T) (*Engine, *intentRecorder, context.CancelFunc) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	recorder := &intentRecorder{}
	engine := NewEngine(recorder, alarm.Settings{AudioEnabled: true, SpeechEnabled: true}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go engine.Run(ctx)
	return engine, recorder, cancel
}

// waitIdle дожидается, пока движок обработает все отправленные запросы
func waitIdle(t *testing.T, engine *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := engine.Snapshot(ctx)
	require.NoError(t, err)
}

func TestEngine_SnapshotThenPushEventDoesNotRealert(t *testing.T) {
	// Переход приходит сначала снимком опроса, затем push-событием:
	// намерение тревоги рождается ровно один раз
	engine, recorder, cancel := newTestEngine(t)
	defer cancel()

	active := &models.Incident{ID: 1, Title: "Wohnungsbrand", Status: models.IncidentStatusActive}
	engine.MergeIncidentSnapshot([]*models.Incident{active})
	waitIdle(t, engine)
	require.Equal(t, 1, recorder.count())

	// Тот же переход дублирует push-канал
	engine.ApplyEvent(events.Event{Type: events.TypeIncidentUpdated, Incident: active})
	waitIdle(t, engine)
	assert.Equal(t, 1, recorder.count())
}

func TestEngine_PushEventThenSnapshotDoesNotRealert(t *testing.T) {
	// Обратный порядок: push-событие первым, снимок опроса вторым
	engine, recorder, cancel := newTestEngine(t)
	defer cancel()

	active := &models.Incident{ID: 2, Title: "Verkehrsunfall", Status: models.IncidentStatusActive}
	engine.ApplyEvent(events.Event{Type: events.TypeIncidentCreated, Incident: active})
	waitIdle(t, engine)
	require.Equal(t, 1, recorder.count())

	engine.MergeIncidentSnapshot([]*models.Incident{active})
	waitIdle(t, engine)
	assert.Equal(t, 1, recorder.count())
}

func TestEngine_DeleteEventRemovesIncident(t *testing.T) {
	engine, recorder, cancel := newTestEngine(t)
	defer cancel()

	engine.MergeIncidentSnapshot([]*models.Incident{
		{ID: 3, Title: "Einsatz", Status: models.IncidentStatusActive},
	})
	waitIdle(t, engine)
	require.Equal(t, 1, recorder.count())

	engine.ApplyEvent(events.Event{Type: events.TypeIncidentDeleted, IncidentID: 3})
	waitIdle(t, engine)

	incidents, _, err := engine.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, incidents)
	// Удаление тревог не рождает
	assert.Equal(t, 1, recorder.count())
}

func TestEngine_DisabledAlarmsSuppressWithoutLateFire(t *testing.T) {
	// Оба канала тревог выключены: намерение подавляется, но реестр
	// активных id всё равно обновляется. Позднее включение тревог
	// не должно всплыть тревогой задним числом.
	engine, recorder, cancel := newTestEngine(t)
	defer cancel()

	engine.UpdateSettings(models.Options{AudioEnabled: false, SpeechEnabled: false})
	engine.MergeIncidentSnapshot([]*models.Incident{
		{ID: 4, Title: "Stiller Einsatz", Status: models.IncidentStatusActive},
	})
	waitIdle(t, engine)
	require.Equal(t, 0, recorder.count())

	// Тревоги включаются обратно, инцидент всё ещё активен
	engine.UpdateSettings(models.Options{AudioEnabled: true, SpeechEnabled: true})
	engine.MergeIncidentSnapshot([]*models.Incident{
		{ID: 4, Title: "Stiller Einsatz", Status: models.IncidentStatusActive},
	})
	waitIdle(t, engine)
	assert.Equal(t, 0, recorder.count())
}

func TestEngine_VehicleEventResyncsEmbeddedRefs(t *testing.T) {
	engine, _, cancel := newTestEngine(t)
	defer cancel()

	engine.MergeVehicleSnapshot([]*models.Vehicle{
		{ID: 1, Name: "LF 10", Status: models.VehicleStatusAvailable},
	})
	engine.MergeIncidentSnapshot([]*models.Incident{
		{
			ID:     1,
			Title:  "Einsatz",
			Status: models.IncidentStatusNew,
			Vehicles: []models.VehicleRef{
				{ID: 1, Name: "LF 10", Status: models.VehicleStatusAvailable},
			},
		},
	})
	engine.ApplyEvent(events.Event{
		Type:    events.TypeVehicleUpdated,
		Vehicle: &models.Vehicle{ID: 1, Name: "LF 10", Status: models.VehicleStatusInMaintenance},
	})

	incidents, vehicles, err := engine.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	require.Len(t, vehicles, 1)
	assert.Equal(t, models.VehicleStatusInMaintenance, incidents[0].Vehicles[0].Status)
}

func TestEngine_IntentCarriesAssembledMessage(t *testing.T) {
	engine, recorder, cancel := newTestEngine(t)
	defer cancel()

	engine.MergeIncidentSnapshot([]*models.Incident{
		{
			ID:      5,
			Title:   "Brand",
			Address: "Hauptstrasse 12",
			Status:  models.IncidentStatusActive,
			Vehicles: []models.VehicleRef{
				{ID: 1, Name: "LF 10"},
			},
		},
	})
	waitIdle(t, engine)

	require.Equal(t, 1, recorder.count())
	intent := recorder.last()
	assert.EqualValues(t, 5, intent.IncidentID)
	assert.Equal(t, "Neuer Einsatz! Brand. Fahrzeuge LF 10 ausrücken zu Hauptstrasse 12", intent.Message)
}

func TestEngine_SnapshotReturnsCopies(t *testing.T) {
	// Изменение снимка не должно трогать состояние движка
	engine, _, cancel := newTestEngine(t)
	defer cancel()

	engine.MergeIncidentSnapshot([]*models.Incident{
		{ID: 6, Title: "Original", Status: models.IncidentStatusNew},
	})

	incidents, _, err := engine.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	incidents[0].Title = "Verändert"

	again, _, err := engine.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Original", again[0].Title)
}
