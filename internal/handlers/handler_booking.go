package handlers

import (
	"net/http"

	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/Rello/domus-sub002/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bookingHandler handles HTTP requests for bookings and the distribution
// state machine operating on them.
type bookingHandler struct {
	bookingService      portssvc.BookingSvcFacade
	distributionService portssvc.DistributionSvcFacade
}

// registerBookingRoutes registers booking and distribution routes.
func registerBookingRoutes(
	rg *gin.RouterGroup,
	bookingService portssvc.BookingSvcFacade,
	distributionService portssvc.DistributionSvcFacade,
) {
	h := &bookingHandler{
		bookingService:      bookingService,
		distributionService: distributionService,
	}

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listBookings)
		bookings.GET("/:booking_id", h.getBooking)
		bookings.PUT("/:booking_id", h.updateBooking)
		bookings.DELETE("/:booking_id", h.deleteBooking)
		bookings.POST("/:booking_id/lock", h.lockBooking)
		bookings.POST("/:booking_id/distribute", h.distributeBooking)
		bookings.POST("/:booking_id/reverse", h.reverseBooking)
	}
}

// createBooking godoc
// @Summary Create a draft booking
// @Description Creates a booking targeting a property, a unit, or a unit inside a property. New bookings start as drafts.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account disabled"
// @Security BearerAuth
// @Router /bookings [post]
func (h *bookingHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// listBookings godoc
// @Summary List bookings
// @Description Retrieves a filtered, token-paginated list of the user's bookings, newest invoice date first.
// @Tags bookings
// @Produce json
// @Param year query int false "Filter by year"
// @Param propertyID query string false "Filter by property"
// @Param unitID query string false "Filter by unit"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListBookingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /bookings [get]
func (h *bookingHandler) listBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.bookingService.ListBookings(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getBooking godoc
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /bookings/{booking_id} [get]
func (h *bookingHandler) getBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), userID, c.Param("booking_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// updateBooking godoc
// @Summary Update a draft booking
// @Description Only drafts are mutable; distributed and locked bookings reject updates.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Param booking body dto.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Booking is not a draft"
// @Security BearerAuth
// @Router /bookings/{booking_id} [put]
func (h *bookingHandler) updateBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), c.Param("booking_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// deleteBooking godoc
// @Summary Delete a draft booking
// @Tags bookings
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Booking is not a draft"
// @Security BearerAuth
// @Router /bookings/{booking_id} [delete]
func (h *bookingHandler) deleteBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), userID, c.Param("booking_id")); err != nil {
		respondError(c, logger, err, "Failed to delete booking")
		return
	}

	c.Status(http.StatusNoContent)
}

// lockBooking godoc
// @Summary Lock a draft unit booking
// @Description Finalizes a unit booking (draft to locked). Property bookings are locked through distribution instead.
// @Tags bookings
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not a draft or not unit-scoped"
// @Security BearerAuth
// @Router /bookings/{booking_id}/lock [post]
func (h *bookingHandler) lockBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.LockBooking(c.Request.Context(), userID, c.Param("booking_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to lock booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// distributeBooking godoc
// @Summary Distribute a property booking across its units
// @Description Allocates the booking amount per the attached distribution key, writes one locked child booking per unit, and flips the original to distributed. Atomic.
// @Tags bookings
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} dto.DistributionPreview
// @Failure 400 {object} ErrorResponse "No key attached or key mismatch"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Booking is not a draft"
// @Failure 422 {object} ErrorResponse "Key configuration cannot allocate or a unit value is missing"
// @Security BearerAuth
// @Router /bookings/{booking_id}/distribute [post]
func (h *bookingHandler) distributeBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	preview, err := h.distributionService.Distribute(c.Request.Context(), userID, c.Param("booking_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to distribute booking")
		return
	}

	c.JSON(http.StatusOK, preview)
}

// reverseBooking godoc
// @Summary Reverse a distributed booking
// @Description Writes a negated mirror for every child booking and flips the original to locked. Nothing is deleted.
// @Tags bookings
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} dto.ReversalResult
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Booking is not distributed"
// @Security BearerAuth
// @Router /bookings/{booking_id}/reverse [post]
func (h *bookingHandler) reverseBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.distributionService.Reverse(c.Request.Context(), userID, c.Param("booking_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to reverse booking")
		return
	}

	c.JSON(http.StatusOK, result)
}
