package service

import (
	"context"
	"fmt"

	"github.com/shenikar/dispatch_dashboard_system/internal/events"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id int64) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id int64) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error
	GetIncident(ctx context.Context, id int64) (*models.Incident, error)
	UpdateIncident(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error
	DeleteIncident(ctx context.Context, id int64) error
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	publisher events.Publisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, publisher events.Publisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// CreateIncident создает инцидент и публикует событие incident_created
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"title":   incident.Title,
	})
	log.Info("Attempting to create a new incident")

	if incident.Status == "" {
		incident.Status = models.IncidentStatusNew
	}
	if err := s.repo.Create(ctx, incident, vehicleIDs); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.TypeIncidentCreated, Incident: incident})

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID, сначала из кеша, затем из бд
func (s *incidentService) GetIncident(ctx context.Context, id int64) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// UpdateIncident обновляет существующий инцидент и публикует событие incident_updated
func (s *incidentService) UpdateIncident(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": incident.ID,
	})
	log.Info("Attempting to update incident")

	existing, err := s.repo.GetByID(ctx, incident.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return fmt.Errorf("service: incident with id %d not found for update: %w", incident.ID, err)
	}

	existing.Title = incident.Title
	existing.Description = incident.Description
	existing.Address = incident.Address
	existing.Latitude = incident.Latitude
	existing.Longitude = incident.Longitude
	existing.ScheduledAt = incident.ScheduledAt
	existing.Status = incident.Status

	if err := s.repo.Update(ctx, existing, vehicleIDs); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return fmt.Errorf("service: could not update incident: %w", err)
	}
	*incident = *existing

	if err := s.repo.InvalidateIncidentCache(ctx, incident.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publish(ctx, events.Event{Type: events.TypeIncidentUpdated, Incident: existing})

	log.Info("Incident updated successfully")
	return nil
}

// DeleteIncident удаляет инцидент и публикует событие incident_deleted
func (s *incidentService) DeleteIncident(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
	})
	log.Info("Attempting to delete incident")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent incident")
		return fmt.Errorf("service: incident with id %d not found for delete: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publish(ctx, events.Event{Type: events.TypeIncidentDeleted, IncidentID: id})

	log.Info("Incident deleted successfully")
	return nil
}

// ListIncidents возвращает полную коллекцию инцидентов
func (s *incidentService) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	incidents, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// publish отправляет событие в очередь. Ошибка публикации не фатальна:
// киоски доберут состояние периодическим опросом.
func (s *incidentService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Error("Failed to publish event")
	}
}
