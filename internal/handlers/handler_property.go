package handlers

import (
	"net/http"

	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/Rello/domus-sub002/internal/middleware"
	"github.com/gin-gonic/gin"
)

// propertyHandler handles HTTP requests for properties, units, and their
// distribution keys.
type propertyHandler struct {
	propertyService   portssvc.PropertySvcFacade
	keyService        portssvc.DistributionKeySvcFacade
	statisticsService portssvc.StatisticsSvcFacade
}

// registerPropertyRoutes registers property, unit, and key routes.
func registerPropertyRoutes(
	rg *gin.RouterGroup,
	propertyService portssvc.PropertySvcFacade,
	keyService portssvc.DistributionKeySvcFacade,
	statisticsService portssvc.StatisticsSvcFacade,
) {
	h := &propertyHandler{
		propertyService:   propertyService,
		keyService:        keyService,
		statisticsService: statisticsService,
	}

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("", h.listProperties)
		properties.GET("/:property_id", h.getProperty)
		properties.POST("/:property_id/units", h.createUnit)
		properties.GET("/:property_id/units", h.listUnits)
		properties.POST("/:property_id/keys", h.createKey)
		properties.GET("/:property_id/keys", h.listKeys)
	}

	units := rg.Group("/units")
	{
		units.GET("/:unit_id", h.getUnit)
		units.GET("/:unit_id/statistics", h.getUnitStatistics)
	}

	keys := rg.Group("/keys")
	{
		keys.GET("/:key_id", h.getKey)
		keys.DELETE("/:key_id", h.deleteKey)
		keys.POST("/:key_id/values", h.addKeyUnitValue)
		keys.GET("/:key_id/values", h.listKeyUnitValues)
	}
}

// requireUserID pulls the authenticated user from the context or writes 401.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// createProperty godoc
// @Summary Create a property
// @Tags properties
// @Accept json
// @Produce json
// @Param property body dto.CreatePropertyRequest true "Property details"
// @Success 201 {object} dto.PropertyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties [post]
func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPropertyResponse(property))
}

// listProperties godoc
// @Summary List the user's properties
// @Tags properties
// @Produce json
// @Success 200 {array} dto.PropertyResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties [get]
func (h *propertyHandler) listProperties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	properties, err := h.propertyService.ListProperties(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list properties")
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponses(properties))
}

// getProperty godoc
// @Summary Get a property
// @Tags properties
// @Produce json
// @Param property_id path string true "Property ID"
// @Success 200 {object} dto.PropertyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{property_id} [get]
func (h *propertyHandler) getProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	property, err := h.propertyService.GetProperty(c.Request.Context(), userID, c.Param("property_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve property")
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

// createUnit godoc
// @Summary Create a unit inside a property
// @Tags properties
// @Accept json
// @Produce json
// @Param property_id path string true "Property ID"
// @Param unit body dto.CreateUnitRequest true "Unit details"
// @Success 201 {object} dto.UnitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{property_id}/units [post]
func (h *propertyHandler) createUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	unit, err := h.propertyService.CreateUnit(c.Request.Context(), c.Param("property_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create unit")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUnitResponse(unit))
}

// listUnits godoc
// @Summary List a property's units
// @Tags properties
// @Produce json
// @Param property_id path string true "Property ID"
// @Success 200 {array} dto.UnitResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{property_id}/units [get]
func (h *propertyHandler) listUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	units, err := h.propertyService.ListUnits(c.Request.Context(), userID, c.Param("property_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list units")
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitResponses(units))
}

// getUnit godoc
// @Summary Get a unit
// @Tags units
// @Produce json
// @Param unit_id path string true "Unit ID"
// @Success 200 {object} dto.UnitResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{unit_id} [get]
func (h *propertyHandler) getUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	unit, err := h.propertyService.GetUnit(c.Request.Context(), userID, c.Param("unit_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve unit")
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

// getUnitStatistics godoc
// @Summary Get a unit's statistics table
// @Description Evaluates the revenue or cost rule set for every year the unit has bookings, newest year first.
// @Tags units
// @Produce json
// @Param unit_id path string true "Unit ID"
// @Param set query string true "Rule set" Enums(revenue, cost)
// @Success 200 {object} dto.StatisticsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Invalid rule definition"
// @Security BearerAuth
// @Router /units/{unit_id}/statistics [get]
func (h *propertyHandler) getUnitStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.statisticsService.BuildAllYears(c.Request.Context(), userID, c.Param("unit_id"), c.Query("set"))
	if err != nil {
		respondError(c, logger, err, "Failed to build statistics")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createKey godoc
// @Summary Create a distribution key
// @Tags distribution-keys
// @Accept json
// @Produce json
// @Param property_id path string true "Property ID"
// @Param key body dto.CreateDistributionKeyRequest true "Key details"
// @Success 201 {object} dto.DistributionKeyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{property_id}/keys [post]
func (h *propertyHandler) createKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDistributionKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	key, err := h.keyService.CreateKey(c.Request.Context(), c.Param("property_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create distribution key")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDistributionKeyResponse(key))
}

// listKeys godoc
// @Summary List a property's distribution keys
// @Tags distribution-keys
// @Produce json
// @Param property_id path string true "Property ID"
// @Success 200 {array} dto.DistributionKeyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{property_id}/keys [get]
func (h *propertyHandler) listKeys(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	keys, err := h.keyService.ListKeys(c.Request.Context(), userID, c.Param("property_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list distribution keys")
		return
	}

	responses := make([]dto.DistributionKeyResponse, len(keys))
	for i := range keys {
		responses[i] = dto.ToDistributionKeyResponse(&keys[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getKey godoc
// @Summary Get a distribution key
// @Tags distribution-keys
// @Produce json
// @Param key_id path string true "Key ID"
// @Success 200 {object} dto.DistributionKeyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /keys/{key_id} [get]
func (h *propertyHandler) getKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	key, err := h.keyService.GetKey(c.Request.Context(), userID, c.Param("key_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve distribution key")
		return
	}

	c.JSON(http.StatusOK, dto.ToDistributionKeyResponse(key))
}

// deleteKey godoc
// @Summary Delete a distribution key
// @Description Removes a key and all of its per-unit value entries.
// @Tags distribution-keys
// @Produce json
// @Param key_id path string true "Key ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /keys/{key_id} [delete]
func (h *propertyHandler) deleteKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.keyService.DeleteKey(c.Request.Context(), userID, c.Param("key_id")); err != nil {
		respondError(c, logger, err, "Failed to delete distribution key")
		return
	}

	c.Status(http.StatusNoContent)
}

// addKeyUnitValue godoc
// @Summary Append a per-unit value entry to a key
// @Description Values are append-only; a new entry with a later validity window supersedes older ones.
// @Tags distribution-keys
// @Accept json
// @Produce json
// @Param key_id path string true "Key ID"
// @Param value body dto.CreateKeyUnitValueRequest true "Per-unit value"
// @Success 201 {object} dto.KeyUnitValueResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /keys/{key_id}/values [post]
func (h *propertyHandler) addKeyUnitValue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateKeyUnitValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.keyService.AddUnitValue(c.Request.Context(), c.Param("key_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add key value")
		return
	}

	c.JSON(http.StatusCreated, dto.KeyUnitValueResponse{
		EntryID:   entry.EntryID,
		UnitID:    entry.UnitID,
		Value:     entry.Value,
		ValidFrom: entry.ValidFrom,
		ValidTo:   entry.ValidTo,
	})
}

// listKeyUnitValues godoc
// @Summary List a key's per-unit value entries
// @Tags distribution-keys
// @Produce json
// @Param key_id path string true "Key ID"
// @Success 200 {array} dto.KeyUnitValueResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /keys/{key_id}/values [get]
func (h *propertyHandler) listKeyUnitValues(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entries, err := h.keyService.ListUnitValues(c.Request.Context(), userID, c.Param("key_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list key values")
		return
	}

	c.JSON(http.StatusOK, dto.ToKeyUnitValueResponses(entries))
}
