// Package kiosk собирает ядро киоска: движок живой синхронизации,
// который сводит снимки опроса и push-события в одно авторитетное
// состояние и превращает переходы инцидентов в тревоги.
package kiosk

import (
	"context"

	"github.com/shenikar/dispatch_dashboard_system/internal/events"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alarm"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alert"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/state"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// IntentSink - приёмник намерений тревог, обычно секвенсор
type IntentSink interface {
	Enqueue(intent alert.Intent)
}

// Engine - единственная точка сериализации мутаций состояния. Оба
// транспорта (push и опрос) зовут одни и те же методы слияния, поэтому
// реестр активных id никогда не читается устаревшим и переход
// достаётся тому каналу, который сообщил о нём первым.
type Engine struct {
	reconciler *state.Reconciler
	detector   *alert.Detector
	alarms     IntentSink
	logger     *logrus.Logger

	requests chan func()
	settings alarm.Settings
}

func NewEngine(alarms IntentSink, settings alarm.Settings, logger *logrus.Logger) *Engine {
	return &Engine{
		reconciler: state.NewReconciler(logger),
		detector:   alert.NewDetector(logger),
		alarms:     alarms,
		logger:     logger,
		requests:   make(chan func(), 128),
		settings:   settings,
	}
}

// Run выполняет запросы к состоянию строго по одному до отмены контекста
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("Starting sync engine...")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping sync engine.")
			return
		case fn := <-e.requests:
			fn()
		}
	}
}

// MergeIncidentSnapshot сводит полный снимок инцидентов из опроса
func (e *Engine) MergeIncidentSnapshot(incidents []*models.Incident) {
	e.requests <- func() {
		diff := e.reconciler.MergeIncidentSnapshot(incidents)
		e.logDiff("incident_snapshot", diff)
		e.detectAndDispatch()
	}
}

// MergeVehicleSnapshot сводит полный снимок машин из опроса
func (e *Engine) MergeVehicleSnapshot(vehicles []*models.Vehicle) {
	e.requests <- func() {
		diff := e.reconciler.MergeVehicleSnapshot(vehicles)
		e.logDiff("vehicle_snapshot", diff)
		e.detectAndDispatch()
	}
}

// ApplyEvent сводит одиночное событие push-канала
func (e *Engine) ApplyEvent(event events.Event) {
	e.requests <- func() {
		var diff state.Diff
		switch event.Type {
		case events.TypeIncidentCreated, events.TypeIncidentUpdated:
			diff = e.reconciler.UpsertIncident(event.Incident)
		case events.TypeIncidentDeleted:
			if event.IncidentID == 0 {
				e.logger.Warn("Dropping incident_deleted event without id")
				return
			}
			diff = e.reconciler.RemoveIncident(event.IncidentID)
		case events.TypeVehicleCreated, events.TypeVehicleUpdated:
			diff = e.reconciler.UpsertVehicle(event.Vehicle)
		case events.TypeVehicleDeleted:
			if event.VehicleID == 0 {
				e.logger.Warn("Dropping vehicle_deleted event without id")
				return
			}
			diff = e.reconciler.RemoveVehicle(event.VehicleID)
		default:
			e.logger.WithField("event_type", event.Type).Warn("Unknown push event type")
			return
		}
		e.logDiff(event.Type, diff)
		e.detectAndDispatch()
	}
}

// UpdateSettings внедряет свежий снимок настроек в конвейер
func (e *Engine) UpdateSettings(options models.Options) {
	e.requests <- func() {
		e.settings = alarm.Settings{
			AudioEnabled:   options.AudioEnabled,
			SpeechEnabled:  options.SpeechEnabled,
			AlarmSound:     options.AlarmSound,
			SpeechLanguage: options.SpeechLanguage,
		}
	}
}

// Snapshot возвращает копию текущего состояния для отрисовки
func (e *Engine) Snapshot(ctx context.Context) ([]*models.Incident, []*models.Vehicle, error) {
	type reply struct {
		incidents []*models.Incident
		vehicles  []*models.Vehicle
	}
	replies := make(chan reply, 1)

	select {
	case e.requests <- func() {
		replies <- reply{
			incidents: copyIncidents(e.reconciler.Incidents()),
			vehicles:  copyVehicles(e.reconciler.Vehicles()),
		}
	}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	select {
	case r := <-replies:
		return r.incidents, r.vehicles, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// detectAndDispatch выделяет переходы после каждого слияния. Детекция и
// обновление реестра происходят в одном шаге, отсюда дедупликация между
// каналами. Если и звук, и речь выключены, намерения подавляются, но
// реестр всё равно обновлён: тревога не всплывёт позже при включении.
func (e *Engine) detectAndDispatch() {
	intents := e.detector.Detect(e.reconciler.Incidents())
	if len(intents) == 0 {
		return
	}
	if !e.settings.AudioEnabled && !e.settings.SpeechEnabled {
		e.logger.WithField("count", len(intents)).Debug("Alarms disabled, suppressing intents")
		return
	}
	for _, intent := range intents {
		e.alarms.Enqueue(intent)
	}
}

func (e *Engine) logDiff(source string, diff state.Diff) {
	if diff.Empty() {
		return
	}
	e.logger.WithFields(logrus.Fields{
		"source":  source,
		"added":   len(diff.Added),
		"updated": len(diff.Updated),
		"removed": len(diff.Removed),
	}).Debug("State merged")
}

func copyIncidents(src []*models.Incident) []*models.Incident {
	out := make([]*models.Incident, 0, len(src))
	for _, incident := range src {
		clone := *incident
		clone.Vehicles = append([]models.VehicleRef(nil), incident.Vehicles...)
		out = append(out, &clone)
	}
	return out
}

func copyVehicles(src []*models.Vehicle) []*models.Vehicle {
	out := make([]*models.Vehicle, 0, len(src))
	for _, vehicle := range src {
		clone := *vehicle
		out = append(out, &clone)
	}
	return out
}
