package v1

import (
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
)

// CreateDTOToIncidentModel преобразует DTO создания в доменную модель
func CreateDTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	return &models.Incident{
		Title:       dto.Title,
		Description: dto.Description,
		Address:     dto.Address,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Status:      dto.Status,
		ScheduledAt: dto.ScheduledAt,
	}
}

// UpdateDTOToIncidentModel преобразует DTO обновления в доменную модель
func UpdateDTOToIncidentModel(dto UpdateIncidentRequest) *models.Incident {
	return &models.Incident{
		Title:       dto.Title,
		Description: dto.Description,
		Address:     dto.Address,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Status:      dto.Status,
		ScheduledAt: dto.ScheduledAt,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO ответа
func ModelToIncidentResponse(incident *models.Incident) IncidentResponse {
	vehicles := make([]VehicleRefResponse, 0, len(incident.Vehicles))
	for _, ref := range incident.Vehicles {
		vehicles = append(vehicles, VehicleRefResponse{
			ID:     ref.ID,
			Name:   ref.Name,
			Status: ref.Status,
		})
	}
	return IncidentResponse{
		ID:          incident.ID,
		Title:       incident.Title,
		Description: incident.Description,
		Address:     incident.Address,
		Latitude:    incident.Latitude,
		Longitude:   incident.Longitude,
		Status:      incident.Status,
		ScheduledAt: incident.ScheduledAt,
		CreatedAt:   incident.CreatedAt,
		Vehicles:    vehicles,
	}
}

// ModelsToIncidentResponses преобразует список моделей в список DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []IncidentResponse {
	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, ModelToIncidentResponse(incident))
	}
	return responses
}

// CreateDTOToVehicleModel преобразует DTO создания в доменную модель
func CreateDTOToVehicleModel(dto CreateVehicleRequest) *models.Vehicle {
	return &models.Vehicle{
		Name:   dto.Name,
		Status: dto.Status,
	}
}

// UpdateDTOToVehicleModel преобразует DTO обновления в доменную модель
func UpdateDTOToVehicleModel(dto UpdateVehicleRequest) *models.Vehicle {
	return &models.Vehicle{
		Name:   dto.Name,
		Status: dto.Status,
	}
}

// ModelToVehicleResponse преобразует доменную модель в DTO ответа
func ModelToVehicleResponse(vehicle *models.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:     vehicle.ID,
		Name:   vehicle.Name,
		Status: vehicle.Status,
	}
}

// ModelsToVehicleResponses преобразует список моделей в список DTO
func ModelsToVehicleResponses(vehicles []*models.Vehicle) []VehicleResponse {
	responses := make([]VehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		responses = append(responses, ModelToVehicleResponse(vehicle))
	}
	return responses
}

// UpdateDTOToOptionsPatch преобразует DTO в частичное обновление настроек
func UpdateDTOToOptionsPatch(dto UpdateOptionsRequest) models.OptionsPatch {
	return models.OptionsPatch{
		AudioEnabled:    dto.AudioEnabled,
		SpeechEnabled:   dto.SpeechEnabled,
		AlarmSound:      dto.AlarmSound,
		SpeechLanguage:  dto.SpeechLanguage,
		WeatherLocation: dto.WeatherLocation,
	}
}

// ModelToOptionsResponse преобразует доменную модель в DTO ответа
func ModelToOptionsResponse(options *models.Options) OptionsResponse {
	return OptionsResponse{
		AudioEnabled:    options.AudioEnabled,
		SpeechEnabled:   options.SpeechEnabled,
		AlarmSound:      options.AlarmSound,
		SpeechLanguage:  options.SpeechLanguage,
		WeatherLocation: options.WeatherLocation,
	}
}
