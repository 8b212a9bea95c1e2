// Package state содержит движок сверки киоска: авторитетные коллекции
// инцидентов и машин в памяти. Все мутации выполняются одной горутиной
// движка, поэтому блокировок здесь нет.
package state

import (
	"sort"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Diff - результат слияния: списки id добавленных, изменённых и удалённых сущностей
type Diff struct {
	Added   []int64
	Updated []int64
	Removed []int64
}

// Empty сообщает, что слияние ничего не изменило
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// Reconciler хранит авторитетное состояние киоска. Последняя запись побеждает:
// сервер единственный писатель, версионирование не нужно.
type Reconciler struct {
	incidents map[int64]*models.Incident
	vehicles  map[int64]*models.Vehicle
	logger    *logrus.Logger
}

func NewReconciler(logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		incidents: make(map[int64]*models.Incident),
		vehicles:  make(map[int64]*models.Vehicle),
		logger:    logger,
	}
}

// MergeIncidentSnapshot целиком заменяет коллекцию инцидентов и возвращает диф.
// Записи без id отбрасываются с диагностикой и не трогают коллекцию.
func (r *Reconciler) MergeIncidentSnapshot(entities []*models.Incident) Diff {
	next := make(map[int64]*models.Incident, len(entities))
	for _, incident := range entities {
		if incident == nil || incident.ID == 0 {
			r.logger.Warn("Dropping incident payload without id")
			continue
		}
		next[incident.ID] = incident
	}

	diff := Diff{}
	for id, incident := range next {
		prev, ok := r.incidents[id]
		switch {
		case !ok:
			diff.Added = append(diff.Added, id)
		case incidentChanged(prev, incident):
			diff.Updated = append(diff.Updated, id)
		}
	}
	for id := range r.incidents {
		if _, ok := next[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	r.incidents = next
	r.resyncVehicleRefs()
	sortDiff(&diff)
	return diff
}

// MergeVehicleSnapshot целиком заменяет коллекцию машин и возвращает диф.
// После замены встроенные снимки машин в инцидентах пересинхронизируются.
func (r *Reconciler) MergeVehicleSnapshot(entities []*models.Vehicle) Diff {
	next := make(map[int64]*models.Vehicle, len(entities))
	for _, vehicle := range entities {
		if vehicle == nil || vehicle.ID == 0 {
			r.logger.Warn("Dropping vehicle payload without id")
			continue
		}
		next[vehicle.ID] = vehicle
	}

	diff := Diff{}
	for id, vehicle := range next {
		prev, ok := r.vehicles[id]
		switch {
		case !ok:
			diff.Added = append(diff.Added, id)
		case vehicleChanged(prev, vehicle):
			diff.Updated = append(diff.Updated, id)
		}
	}
	for id := range r.vehicles {
		if _, ok := next[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	r.vehicles = next
	r.resyncVehicleRefs()
	sortDiff(&diff)
	return diff
}

// UpsertIncident применяет одиночное событие created/updated.
// Неизвестный id при updated трактуется как добавление: push-канал мог
// потерять created во время переподключения.
func (r *Reconciler) UpsertIncident(incident *models.Incident) Diff {
	diff := Diff{}
	if incident == nil || incident.ID == 0 {
		r.logger.Warn("Dropping incident event without id")
		return diff
	}

	prev, ok := r.incidents[incident.ID]
	switch {
	case !ok:
		diff.Added = append(diff.Added, incident.ID)
	case incidentChanged(prev, incident):
		diff.Updated = append(diff.Updated, incident.ID)
	}
	r.incidents[incident.ID] = incident
	r.resyncIncidentRefs(incident)
	return diff
}

// RemoveIncident применяет событие deleted
func (r *Reconciler) RemoveIncident(id int64) Diff {
	diff := Diff{}
	if _, ok := r.incidents[id]; !ok {
		return diff
	}
	delete(r.incidents, id)
	diff.Removed = append(diff.Removed, id)
	return diff
}

// UpsertVehicle применяет одиночное событие created/updated машины
func (r *Reconciler) UpsertVehicle(vehicle *models.Vehicle) Diff {
	diff := Diff{}
	if vehicle == nil || vehicle.ID == 0 {
		r.logger.Warn("Dropping vehicle event without id")
		return diff
	}

	prev, ok := r.vehicles[vehicle.ID]
	switch {
	case !ok:
		diff.Added = append(diff.Added, vehicle.ID)
	case vehicleChanged(prev, vehicle):
		diff.Updated = append(diff.Updated, vehicle.ID)
	}
	r.vehicles[vehicle.ID] = vehicle
	r.resyncVehicleRefs()
	return diff
}

// RemoveVehicle применяет событие deleted машины
func (r *Reconciler) RemoveVehicle(id int64) Diff {
	diff := Diff{}
	if _, ok := r.vehicles[id]; !ok {
		return diff
	}
	delete(r.vehicles, id)
	diff.Removed = append(diff.Removed, id)
	return diff
}

// Incident возвращает инцидент по id
func (r *Reconciler) Incident(id int64) (*models.Incident, bool) {
	incident, ok := r.incidents[id]
	return incident, ok
}

// Incidents возвращает коллекцию инцидентов, отсортированную по id
func (r *Reconciler) Incidents() []*models.Incident {
	incidents := make([]*models.Incident, 0, len(r.incidents))
	for _, incident := range r.incidents {
		incidents = append(incidents, incident)
	}
	sort.Slice(incidents, func(i, j int) bool { return incidents[i].ID < incidents[j].ID })
	return incidents
}

// Vehicles возвращает коллекцию машин, отсортированную по id
func (r *Reconciler) Vehicles() []*models.Vehicle {
	vehicles := make([]*models.Vehicle, 0, len(r.vehicles))
	for _, vehicle := range r.vehicles {
		vehicles = append(vehicles, vehicle)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })
	return vehicles
}

// resyncVehicleRefs обновляет встроенные снимки машин во всех инцидентах,
// чтобы имя и статус отражали текущее состояние коллекции машин
func (r *Reconciler) resyncVehicleRefs() {
	for _, incident := range r.incidents {
		r.resyncIncidentRefs(incident)
	}
}

func (r *Reconciler) resyncIncidentRefs(incident *models.Incident) {
	for i := range incident.Vehicles {
		if vehicle, ok := r.vehicles[incident.Vehicles[i].ID]; ok {
			incident.Vehicles[i].Name = vehicle.Name
			incident.Vehicles[i].Status = vehicle.Status
		}
	}
}

// incidentChanged - неглубокое сравнение полей, важных для отображения и тревог
func incidentChanged(a, b *models.Incident) bool {
	if a.Status != b.Status || a.Title != b.Title || a.Address != b.Address {
		return true
	}
	switch {
	case a.ScheduledAt == nil && b.ScheduledAt == nil:
		return false
	case a.ScheduledAt == nil || b.ScheduledAt == nil:
		return true
	default:
		return !a.ScheduledAt.Equal(*b.ScheduledAt)
	}
}

func vehicleChanged(a, b *models.Vehicle) bool {
	return a.Name != b.Name || a.Status != b.Status
}

func sortDiff(d *Diff) {
	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i] < d.Added[j] })
	sort.Slice(d.Updated, func(i, j int) bool { return d.Updated[i] < d.Updated[j] })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i] < d.Removed[j] })
}
