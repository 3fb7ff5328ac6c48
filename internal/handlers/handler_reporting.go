package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for the read-side reports built on
// top of distributed bookings.
type reportingHandler struct {
	distributionService portssvc.DistributionSvcFacade
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, distributionService portssvc.DistributionSvcFacade) {
	h := &reportingHandler{distributionService: distributionService}

	reports := rg.Group("/reports")
	{
		reports.GET("/properties/:property_id/units/:unit_id", h.getUnitReport)
		reports.GET("/sums", h.getAccountSums)
	}
}

// getUnitReport godoc
// @Summary Get a unit's yearly cost report
// @Description Produces the unit's share of one year's property-level bookings plus its direct bookings, grouped by top account and sorted by date.
// @Tags reports
// @Produce json
// @Param property_id path string true "Property ID"
// @Param unit_id path string true "Unit ID"
// @Param year query int true "Report year"
// @Success 200 {object} dto.UnitReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/properties/{property_id}/units/{unit_id} [get]
func (h *reportingHandler) getUnitReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A positive year query parameter is required"})
		return
	}

	report, err := h.distributionService.BuildUnitReport(c.Request.Context(), userID, c.Param("property_id"), c.Param("unit_id"), year)
	if err != nil {
		respondError(c, logger, err, "Failed to build unit report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getAccountSums godoc
// @Summary Get per-account sums for a scope
// @Description Sums one year's bookings per account for a property or unit, with resolved labels and top-account grouping.
// @Tags reports
// @Produce json
// @Param year query int true "Year"
// @Param groupBy query string true "Scope" Enums(property, unit)
// @Param groupID query string true "Property or unit ID"
// @Success 200 {array} dto.AccountSumRow
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/sums [get]
func (h *reportingHandler) getAccountSums(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A positive year query parameter is required"})
		return
	}

	rows, err := h.distributionService.SumByAccountGrouped(c.Request.Context(), userID, year, c.Query("groupBy"), c.Query("groupID"))
	if err != nil {
		respondError(c, logger, err, "Failed to build account sums")
		return
	}

	c.JSON(http.StatusOK, rows)
}
