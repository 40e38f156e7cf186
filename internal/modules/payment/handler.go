package payment

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"courier/internal/middleware"
	"courier/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *logrus.Logger
}

func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:bookingId/payments", h.ProcessPayment)
	rg.GET("/bookings/:bookingId/payment", h.GetPayment)
	rg.GET("/bookings/:bookingId/invoice", h.GenerateInvoice)
}

// ProcessPayment godoc
// @Summary      Pay for a booking
// @Description  Charges the booking's service cost to a card and marks the booking BOOKED
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingId path string true "Booking id"
// @Param        body body CardDetails true "Card details"
// @Success      201 {object} PaymentResponse
// @Failure      400 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /bookings/{bookingId}/payments [post]
func (h *Handler) ProcessPayment(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var card CardDetails
	if err := c.ShouldBindJSON(&card); err != nil {
		h.log.WithError(err).WithField("booking_id", c.Param("bookingId")).Warn("invalid payment payload")
		response.BadRequest(c, "Invalid request body")
		return
	}

	p, b, err := h.service.ProcessPayment(c.Request.Context(), actor, c.Param("bookingId"), card)
	if err != nil {
		if p != nil {
			response.DomainErrorWithDetails(c, err, gin.H{"payment": p})
			return
		}
		response.DomainError(c, err)
		return
	}
	response.Created(c, PaymentResponse{Payment: p, Booking: b})
}

// GetPayment godoc
// @Summary      Get the successful payment of a booking
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        bookingId path string true "Booking id"
// @Failure      404 {object} ErrorResponse
// @Router       /bookings/{bookingId}/payment [get]
func (h *Handler) GetPayment(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	p, err := h.service.GetPayment(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, gin.H{"payment": p})
}

// GenerateInvoice godoc
// @Summary      Invoice for a paid booking
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        bookingId path string true "Booking id"
// @Param        stamp query bool false "Include generation time"
// @Failure      404 {object} ErrorResponse
// @Router       /bookings/{bookingId}/invoice [get]
func (h *Handler) GenerateInvoice(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	stamp := false
	if raw := c.Query("stamp"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "stamp must be true or false")
			return
		}
		stamp = v
	}

	inv, err := h.service.GenerateInvoice(c.Request.Context(), actor, c.Param("bookingId"), stamp)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, gin.H{"invoice": inv})
}
