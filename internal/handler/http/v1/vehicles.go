package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Create a new vehicle
// @Description Create a new vehicle. Requires API key.
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param vehicle body CreateVehicleRequest true "Vehicle creation request"
// @Success 201 {object} VehicleResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /vehicles [post]
func (h *Handler) createVehicle(c *gin.Context) {
	var input CreateVehicleRequest
	log := h.logger.WithField("method", "createVehicle")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := CreateDTOToVehicleModel(input)
	if err := h.vehicleService.CreateVehicle(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create vehicle in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToVehicleResponse(model))
}

// @Summary Get the full list of vehicles
// @Description Get the full vehicle collection.
// @Tags Vehicles
// @Accept json
// @Produce json
// @Success 200 {array} VehicleResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /vehicles [get]
func (h *Handler) listVehicles(c *gin.Context) {
	log := h.logger.WithField("method", "listVehicles")

	vehicles, err := h.vehicleService.ListVehicles(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list vehicles from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToVehicleResponses(vehicles))
}

// @Summary Get vehicle by ID
// @Description Get a single vehicle by its ID.
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} VehicleResponse
// @Failure 400 {object} map[string]string "Invalid vehicle ID"
// @Failure 404 {object} map[string]string "Vehicle not found"
// @Router /vehicles/{id} [get]
func (h *Handler) getVehicle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getVehicle").WithField("id", id)

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get vehicle from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToVehicleResponse(vehicle))
}

// @Summary Update an existing vehicle
// @Description Update an existing vehicle by ID. Requires API key.
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Vehicle ID"
// @Param vehicle body UpdateVehicleRequest true "Vehicle update request"
// @Success 200 {object} VehicleResponse
// @Failure 400 {object} map[string]string "Invalid vehicle ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /vehicles/{id} [put]
func (h *Handler) updateVehicle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateVehicle").WithField("id", id)

	var input UpdateVehicleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := UpdateDTOToVehicleModel(input)
	model.ID = id

	if err := h.vehicleService.UpdateVehicle(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to update vehicle in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update vehicle in service"})
		return
	}
	c.JSON(http.StatusOK, ModelToVehicleResponse(model))
}

// @Summary Delete a vehicle
// @Description Delete a vehicle by its ID. Requires API key.
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Vehicle ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid vehicle ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /vehicles/{id} [delete]
func (h *Handler) deleteVehicle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteVehicle").WithField("id", id)

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("Failed to delete vehicle in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete vehicle"})
		return
	}

	c.Status(http.StatusNoContent)
}
