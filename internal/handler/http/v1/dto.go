package v1

import (
	"time"
)

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description,omitempty" validate:"max=5000"`
	Address     string     `json:"address,omitempty" validate:"max=400"`
	Latitude    *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=new active closed"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	VehicleIDs  []int64    `json:"vehicle_ids,omitempty"`
}

// UpdateIncidentRequest DTO для обновления инцидента
// @Description DTO для обновления инцидента
type UpdateIncidentRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description,omitempty" validate:"max=5000"`
	Address     string     `json:"address,omitempty" validate:"max=400"`
	Latitude    *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Status      string     `json:"status" validate:"required,oneof=new active closed"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	VehicleIDs  []int64    `json:"vehicle_ids,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Address     string               `json:"address,omitempty"`
	Latitude    *float64             `json:"latitude,omitempty"`
	Longitude   *float64             `json:"longitude,omitempty"`
	Status      string               `json:"status"`
	ScheduledAt *time.Time           `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	Vehicles    []VehicleRefResponse `json:"vehicles"`
}

// VehicleRefResponse DTO встроенного снимка машины в инциденте
// @Description DTO встроенного снимка машины в инциденте
type VehicleRefResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// CreateVehicleRequest DTO для создания машины
// @Description DTO для создания машины
type CreateVehicleRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=available unavailable in_maintenance"`
}

// UpdateVehicleRequest DTO для обновления машины
// @Description DTO для обновления машины
type UpdateVehicleRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Status string `json:"status" validate:"required,oneof=available unavailable in_maintenance"`
}

// VehicleResponse DTO для ответа с информацией о машине
// @Description DTO для ответа с информацией о машине
type VehicleResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// UpdateOptionsRequest DTO для частичного обновления настроек
// @Description DTO для частичного обновления настроек, отсутствующие ключи не меняются
type UpdateOptionsRequest struct {
	AudioEnabled    *bool   `json:"audio_enabled,omitempty"`
	SpeechEnabled   *bool   `json:"speech_enabled,omitempty"`
	AlarmSound      *string `json:"alarm_sound,omitempty" validate:"omitempty,min=1,max=200"`
	SpeechLanguage  *string `json:"speech_language,omitempty" validate:"omitempty,min=2,max=50"`
	WeatherLocation *string `json:"weather_location,omitempty" validate:"omitempty,max=200"`
}

// OptionsResponse DTO для ответа с настройками
// @Description DTO для ответа с настройками
type OptionsResponse struct {
	AudioEnabled    bool   `json:"audio_enabled"`
	SpeechEnabled   bool   `json:"speech_enabled"`
	AlarmSound      string `json:"alarm_sound"`
	SpeechLanguage  string `json:"speech_language"`
	WeatherLocation string `json:"weather_location"`
}
