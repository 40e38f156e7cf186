package booking

import (
	"time"

	"courier/internal/domain"
)

// CreateBookingRequest carries no price: serviceCost is always computed.
type CreateBookingRequest struct {
	CustomerID          int64     `json:"customerId"`
	ReceiverName        string    `json:"receiverName" validate:"required,max=100"`
	ReceiverAddress     string    `json:"receiverAddress" validate:"required,max=500"`
	ReceiverPin         string    `json:"receiverPin" validate:"required,numeric,len=6"`
	ReceiverMobile      string    `json:"receiverMobile" validate:"required,numeric,min=10,max=15"`
	WeightInGram        int       `json:"weightInGram"`
	ContentsDescription string    `json:"contentsDescription" validate:"max=500"`
	DeliveryType        string    `json:"deliveryType"`
	PackingPreference   string    `json:"packingPreference"`
	PickupTime          time.Time `json:"pickupTime"`
	DropoffTime         time.Time `json:"dropoffTime"`
}

type ScheduleRequest struct {
	PickupTime  time.Time `json:"pickupTime" binding:"required"`
	DropoffTime time.Time `json:"dropoffTime" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListQuery struct {
	CustomerID int64
	domain.PageRequest
}

type TrackingView struct {
	Booking     *domain.Booking             `json:"booking"`
	StatusLabel string                      `json:"statusLabel"`
	History     []domain.BookingStatusEvent `json:"history"`
}
