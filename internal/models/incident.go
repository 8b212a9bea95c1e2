package models

import (
	"time"
)

// Статусы инцидента
const (
	IncidentStatusNew    = "new"
	IncidentStatusActive = "active"
	IncidentStatusClosed = "closed"
)

type Incident struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Address     string       `json:"address,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	Status      string       `json:"status"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Vehicles    []VehicleRef `json:"vehicles"`
}

// VehicleRef - денормализованный снимок машины, встроенный в инцидент.
// Имя и статус синхронизируются с коллекцией машин при каждом её изменении.
type VehicleRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
