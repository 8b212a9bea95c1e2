package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Get operator options
// @Description Get the current operator options.
// @Tags Options
// @Accept json
// @Produce json
// @Success 200 {object} OptionsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /options [get]
func (h *Handler) getOptions(c *gin.Context) {
	log := h.logger.WithField("method", "getOptions")

	options, err := h.optionsService.GetOptions(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get options from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToOptionsResponse(options))
}

// @Summary Update operator options
// @Description Apply a partial options update and return the full updated object. Requires API key.
// @Tags Options
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param options body UpdateOptionsRequest true "Partial options update"
// @Success 200 {object} OptionsResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /options [patch]
func (h *Handler) updateOptions(c *gin.Context) {
	var input UpdateOptionsRequest
	log := h.logger.WithField("method", "updateOptions")

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

	options, err := h.optionsService.UpdateOptions(c.Request.Context(), UpdateDTOToOptionsPatch(input))
	if err != nil {
		log.WithError(err).Error("Failed to update options in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToOptionsResponse(options))
}
