package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/shenikar/dispatch_dashboard_system/internal/service"
)

type VehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) service.VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create создает новую запись о машине в бд
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (name, status)
		VALUES ($1, $2) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, vehicle.Name, vehicle.Status).Scan(&vehicle.ID)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetByID возвращает машину по её ID
func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	query := `SELECT id, name, status FROM vehicles WHERE id = $1;`
	err := r.db.QueryRow(ctx, query, id).Scan(&vehicle.ID, &vehicle.Name, &vehicle.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vehicle with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get vehicle by id: %w", err)
	}
	return vehicle, nil
}

// Update обновляет имя и статус машины
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `UPDATE vehicles SET name = $1, status = $2 WHERE id = $3;`
	cmdTag, err := r.db.Exec(ctx, query, vehicle.Name, vehicle.Status, vehicle.ID)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle with id %d not found for update", vehicle.ID)
	}
	return nil
}

// Delete удаляет машину, привязки к инцидентам удаляются каскадно
func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle with id %d not found for delete", id)
	}
	return nil
}

// List возвращает полную коллекцию машин
func (r *VehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, status FROM vehicles ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*models.Vehicle, 0)
	for rows.Next() {
		vehicle := &models.Vehicle{}
		if err := rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.Status); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return vehicles, nil
}
