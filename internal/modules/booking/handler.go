package booking

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/pkg/response"
)

const defaultPageSize = 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/pricing", h.GetPricing)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:bookingId", h.TrackBooking)
	rg.GET("/bookings/:bookingId/history", h.GetHistory)
	rg.PUT("/bookings/:bookingId/schedule", h.Reschedule)
	rg.POST("/bookings/:bookingId/cancel", h.Cancel)
}

// RegisterOfficerRoutes expects rg to be guarded by OfficerOnly.
func (h *Handler) RegisterOfficerRoutes(rg *gin.RouterGroup) {
	rg.PUT("/bookings/:bookingId/status", h.UpdateStatus)
	rg.PUT("/bookings/:bookingId/pickup", h.SchedulePickup)
}

// GetPricing godoc
// @Summary      Delivery and packing rates
// @Tags         Bookings
// @Produce      json
// @Success      200 {object} domain.PricingTable
// @Router       /pricing [get]
func (h *Handler) GetPricing(c *gin.Context) {
	response.OK(c, domain.Pricing())
}

// CreateBooking godoc
// @Summary      Book a parcel
// @Description  serviceCost is computed from the delivery type and packing preference; any client value is ignored.
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateBookingRequest true "Parcel and receiver details"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Created(c, gin.H{"booking": b})
}

// ListBookings godoc
// @Summary      List bookings
// @Description  Customers see their own bookings; officers see all or filter by customerId.
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Param        page       query int false "0-based page"
// @Param        pageSize   query int false "Page size (default 10, max 100)"
// @Param        customerId query int false "Officer filter"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	q, err := parseListQuery(c)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, page)
}

// TrackBooking godoc
// @Summary      Track a booking
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingId path string true "Booking id"
// @Success      200 {object} TrackingView
// @Failure      403 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /bookings/{bookingId} [get]
func (h *Handler) TrackBooking(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	view, err := h.service.Track(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, view)
}

// GetHistory godoc
// @Summary      Status history of a booking
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingId path string true "Booking id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /bookings/{bookingId}/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	events, err := h.service.History(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, gin.H{"history": events})
}

// Reschedule godoc
// @Summary      Change the pickup and dropoff window
// @Description  Allowed while the booking is NEW or SCHEDULED.
// @Tags         Bookings
// @Security     BearerAuth
// @Param        bookingId path string true "Booking id"
// @Param        request body ScheduleRequest true "New window"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /bookings/{bookingId}/schedule [put]
func (h *Handler) Reschedule(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "pickupTime and dropoffTime are required (RFC 3339)")
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), actor, c.Param("bookingId"), req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, gin.H{"booking": b})
}

// SchedulePickup godoc
// @Summary      Schedule pickup (officer)
// @Description  Sets the window and moves a NEW booking to SCHEDULED.
// @Tags         Officer
// @Security     BearerAuth
// @Param        bookingId path string true "Booking id"
// @Param        request body ScheduleRequest true "Pickup window"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /officer/bookings/{bookingId}/pickup [put]
func (h *Handler) SchedulePickup(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "pickupTime and dropoffTime are required (RFC 3339)")
		return
	}

	b, err := h.service.SchedulePickup(c.Request.Context(), actor, c.Param("bookingId"), req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, gin.H{"booking": b})
}

// Cancel godoc
// @Summary      Cancel a booking
// @Tags         Bookings
// @Security     BearerAuth
// @Param        bookingId path string true "Booking id"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /bookings/{bookingId}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, gin.H{"booking": b})
}

// UpdateStatus godoc
// @Summary      Advance parcel status (officer)
// @Tags         Officer
// @Security     BearerAuth
// @Param        bookingId path string true "Booking id"
// @Param        request body UpdateStatusRequest true "Target status"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /officer/bookings/{bookingId}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), actor, c.Param("bookingId"), req.Status)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.OK(c, gin.H{"booking": b, "statusLabel": domain.StatusLabel(b.ParcelStatus)})
}

func parseListQuery(c *gin.Context) (ListQuery, error) {
	q := ListQuery{PageRequest: domain.PageRequest{Page: 0, PageSize: defaultPageSize}}

	var err error
	if v := c.Query("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			return q, domain.NewValidationError("page", "page must be an integer")
		}
	}
	size := c.Query("pageSize")
	if size == "" {
		size = c.Query("size")
	}
	if size != "" {
		if q.PageSize, err = strconv.Atoi(size); err != nil {
			return q, domain.NewValidationError("pageSize", "pageSize must be an integer")
		}
	}
	if v := c.Query("customerId"); v != "" {
		if q.CustomerID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return q, domain.NewValidationError("customerId", "customerId must be an integer")
		}
	}
	return q, nil
}
