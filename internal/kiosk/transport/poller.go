package transport

import (
	"context"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// SnapshotSink - приёмник полных снимков коллекций, обычно движок синхронизации
type SnapshotSink interface {
	MergeIncidentSnapshot(incidents []*models.Incident)
	MergeVehicleSnapshot(vehicles []*models.Vehicle)
}

// Poller периодически забирает полные коллекции и сводит их через движок.
// Опрос не выключается даже при здоровом push-канале: только полный
// снимок восстанавливает корректность после потерянных push-событий.
type Poller struct {
	client           *Client
	sink             SnapshotSink
	incidentInterval time.Duration
	vehicleInterval  time.Duration
	logger           *logrus.Logger
}

func NewPoller(client *Client, sink SnapshotSink, incidentInterval, vehicleInterval time.Duration, logger *logrus.Logger) *Poller {
	return &Poller{
		client:           client,
		sink:             sink,
		incidentInterval: incidentInterval,
		vehicleInterval:  vehicleInterval,
		logger:           logger,
	}
}

// Start запускает горутины опроса инцидентов и машин
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting pollers...")
	go p.loop(ctx, p.incidentInterval, p.pollIncidents)
	go p.loop(ctx, p.vehicleInterval, p.pollVehicles)
}

func (p *Poller) loop(ctx context.Context, interval time.Duration, poll func(ctx context.Context)) {
	// Первый снимок забираем сразу, не дожидаясь тика
	poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll(ctx)
		}
	}
}

// pollIncidents забирает снимок инцидентов. Ошибка сети не фатальна,
// следующая попытка на очередном тике.
func (p *Poller) pollIncidents(ctx context.Context) {
	incidents, err := p.client.FetchIncidents(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Incidents poll failed")
		return
	}
	p.sink.MergeIncidentSnapshot(incidents)
}

func (p *Poller) pollVehicles(ctx context.Context) {
	vehicles, err := p.client.FetchVehicles(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Vehicles poll failed")
		return
	}
	p.sink.MergeVehicleSnapshot(vehicles)
}
