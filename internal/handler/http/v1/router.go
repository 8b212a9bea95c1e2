package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1.
// Чтение коллекций открыто (его использует киоск), мутации требуют API-ключ.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := APIKeyAuthMiddleware(h.cfg, h.logger)

	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("", auth, h.createIncident)
		incidents.PUT("/:id", auth, h.updateIncident)
		incidents.DELETE("/:id", auth, h.deleteIncident)
	}

	vehicles := api.Group("/vehicles")
	{
		vehicles.GET("", h.listVehicles)
		vehicles.GET("/:id", h.getVehicle)
		vehicles.POST("", auth, h.createVehicle)
		vehicles.PUT("/:id", auth, h.updateVehicle)
		vehicles.DELETE("/:id", auth, h.deleteVehicle)
	}

	options := api.Group("/options")
	{
		options.GET("", h.getOptions)
		options.PATCH("", auth, h.updateOptions)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
