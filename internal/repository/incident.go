package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/shenikar/dispatch_dashboard_system/internal/service"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте и привязывает машины
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO incidents (title, description, address, latitude, longitude, status, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at;
	`
	err = tx.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Address,
		incident.Latitude,
		incident.Longitude,
		incident.Status,
		incident.ScheduledAt,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if err := r.replaceVehicleLinks(ctx, tx, incident.ID, vehicleIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit incident create: %w", err)
	}

	incident.Vehicles, err = r.loadVehicleRefs(ctx, incident.ID)
	if err != nil {
		return err
	}
	return nil
}

// GetByID возвращает инцидент по его ID вместе со встроенными машинами
func (r *IncidentRepository) GetByID(ctx context.Context, id int64) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `
		SELECT id, title, description, address, latitude, longitude, status, scheduled_at, created_at
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Address,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Status,
		&incident.ScheduledAt,
		&incident.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}

	incident.Vehicles, err = r.loadVehicleRefs(ctx, incident.ID)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Update обновляет инцидент и, если передан список машин, заменяет привязки
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident, vehicleIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE incidents SET
			title = $1,
			description = $2,
			address = $3,
			latitude = $4,
			longitude = $5,
			status = $6,
			scheduled_at = $7
		WHERE id = $8;
	`
	cmdTag, err := tx.Exec(ctx, query,
		incident.Title,
		incident.Description,
		incident.Address,
		incident.Latitude,
		incident.Longitude,
		incident.Status,
		incident.ScheduledAt,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %d not found for update", incident.ID)
	}

	if vehicleIDs != nil {
		if err := r.replaceVehicleLinks(ctx, tx, incident.ID, vehicleIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit incident update: %w", err)
	}

	incident.Vehicles, err = r.loadVehicleRefs(ctx, incident.ID)
	if err != nil {
		return err
	}
	return nil
}

// Delete удаляет инцидент, привязки машин удаляются каскадно
func (r *IncidentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %d not found for delete", id)
	}
	return nil
}

// List возвращает полную коллекцию инцидентов со встроенными машинами.
// Киоск сверяет состояние по полному списку, поэтому пагинации здесь нет.
func (r *IncidentRepository) List(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, title, description, address, latitude, longitude, status, scheduled_at, created_at
		FROM incidents
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.Address,
			&incident.Latitude,
			&incident.Longitude,
			&incident.Status,
			&incident.ScheduledAt,
			&incident.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}

	for _, incident := range incidents {
		incident.Vehicles, err = r.loadVehicleRefs(ctx, incident.ID)
		if err != nil {
			return nil, err
		}
	}
	return incidents, nil
}

// replaceVehicleLinks заменяет привязки машин инцидента в рамках транзакции
func (r *IncidentRepository) replaceVehicleLinks(ctx context.Context, tx pgx.Tx, incidentID int64, vehicleIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM incident_vehicles WHERE incident_id = $1;`, incidentID); err != nil {
		return fmt.Errorf("failed to clear vehicle links: %w", err)
	}
	for _, vehicleID := range vehicleIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO incident_vehicles (incident_id, vehicle_id) VALUES ($1, $2);`,
			incidentID, vehicleID,
		)
		if err != nil {
			return fmt.Errorf("failed to link vehicle %d: %w", vehicleID, err)
		}
	}
	return nil
}

// loadVehicleRefs возвращает встроенные снимки машин инцидента
func (r *IncidentRepository) loadVehicleRefs(ctx context.Context, incidentID int64) ([]models.VehicleRef, error) {
	query := `
		SELECT v.id, v.name, v.status
		FROM vehicles v
		JOIN incident_vehicles iv ON iv.vehicle_id = v.id
		WHERE iv.incident_id = $1
		ORDER BY v.id;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle refs: %w", err)
	}
	defer rows.Close()

	refs := make([]models.VehicleRef, 0)
	for rows.Next() {
		ref := models.VehicleRef{}
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Status); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle ref row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error vehicle refs iteration: %w", err)
	}
	return refs, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id int64) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%d", id)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%d", incident.ID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Срок жизни кеша 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id int64) error {
	key := fmt.Sprintf("incident:%d", id)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
