package service

import (
	"context"
	"fmt"

	"github.com/shenikar/dispatch_dashboard_system/internal/events"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// VehicleRepository определяет контракт для работы с бд машин
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Vehicle, error)
}

// VehicleService определяет контракт для бизнес-логики управления машинами
type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
}

type vehicleService struct {
	repo      VehicleRepository
	logger    *logrus.Logger
	publisher events.Publisher
}

func NewVehicleService(repo VehicleRepository, logger *logrus.Logger, publisher events.Publisher) VehicleService {
	return &vehicleService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// CreateVehicle создает машину и публикует событие vehicle_created
func (s *vehicleService) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "vehicle",
		"method":  "CreateVehicle",
		"name":    vehicle.Name,
	})
	log.Info("Attempting to create a new vehicle")

	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusAvailable
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		log.WithError(err).Error("Failed to create vehicle in repository")
		return fmt.Errorf("service: could not create vehicle: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.TypeVehicleCreated, Vehicle: vehicle})

	log.WithField("vehicle_id", vehicle.ID).Info("Vehicle created successfully")
	return nil
}

// GetVehicle получает машину по ID
func (s *vehicleService) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "vehicle",
		"method":     "GetVehicle",
		"vehicle_id": id,
	})

	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get vehicle from repository")
		return nil, fmt.Errorf("service: could not get vehicle: %w", err)
	}
	return vehicle, nil
}

// UpdateVehicle обновляет машину и публикует событие vehicle_updated.
// Киоски пересинхронизируют встроенные снимки машин в инцидентах по этому событию.
func (s *vehicleService) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "vehicle",
		"method":     "UpdateVehicle",
		"vehicle_id": vehicle.ID,
	})
	log.Info("Attempting to update vehicle")

	existing, err := s.repo.GetByID(ctx, vehicle.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent vehicle")
		return fmt.Errorf("service: vehicle with id %d not found for update: %w", vehicle.ID, err)
	}

	existing.Name = vehicle.Name
	existing.Status = vehicle.Status

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update vehicle in repository")
		return fmt.Errorf("service: could not update vehicle: %w", err)
	}
	*vehicle = *existing

	s.publish(ctx, events.Event{Type: events.TypeVehicleUpdated, Vehicle: existing})

	log.Info("Vehicle updated successfully")
	return nil
}

// DeleteVehicle удаляет машину и публикует событие vehicle_deleted
func (s *vehicleService) DeleteVehicle(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "vehicle",
		"method":     "DeleteVehicle",
		"vehicle_id": id,
	})
	log.Info("Attempting to delete vehicle")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent vehicle")
		return fmt.Errorf("service: vehicle with id %d not found for delete: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete vehicle in repository")
		return fmt.Errorf("service: could not delete vehicle: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.TypeVehicleDeleted, VehicleID: id})

	log.Info("Vehicle deleted successfully")
	return nil
}

// ListVehicles возвращает полную коллекцию машин
func (s *vehicleService) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list vehicles from repository")
		return nil, fmt.Errorf("service: could not list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *vehicleService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Error("Failed to publish event")
	}
}
