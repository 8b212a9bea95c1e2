package models

// Статусы машины
const (
	VehicleStatusAvailable     = "available"
	VehicleStatusUnavailable   = "unavailable"
	VehicleStatusInMaintenance = "in_maintenance"
)

type Vehicle struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
