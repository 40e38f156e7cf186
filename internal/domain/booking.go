package domain

import (
	"fmt"
	"strings"
	"time"
)

type ParcelStatus string

const (
	ParcelNew       ParcelStatus = "NEW"
	ParcelScheduled ParcelStatus = "SCHEDULED"
	ParcelPickedUp  ParcelStatus = "PICKED_UP"
	ParcelAssigned  ParcelStatus = "ASSIGNED"
	ParcelBooked    ParcelStatus = "BOOKED"
	ParcelInTransit ParcelStatus = "IN_TRANSIT"
	ParcelDelivered ParcelStatus = "DELIVERED"
	ParcelCancelled ParcelStatus = "CANCELLED"
)

// forwardPath is the only order in which a parcel may advance.
var forwardPath = []ParcelStatus{
	ParcelNew,
	ParcelScheduled,
	ParcelPickedUp,
	ParcelAssigned,
	ParcelBooked,
	ParcelInTransit,
	ParcelDelivered,
}

var statusLabels = map[ParcelStatus]string{
	ParcelNew:       "New",
	ParcelScheduled: "Scheduled",
	ParcelPickedUp:  "Picked Up",
	ParcelAssigned:  "Assigned",
	ParcelBooked:    "Booked",
	ParcelInTransit: "In Transit",
	ParcelDelivered: "Delivered",
	ParcelCancelled: "Cancelled",
}

// ParseParcelStatus accepts the canonical upper-case names; surrounding
// whitespace and letter case are ignored.
func ParseParcelStatus(s string) (ParcelStatus, error) {
	status := ParcelStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", NewValidationError("parcelStatus", fmt.Sprintf("unknown parcel status %q", s))
	}
	return status, nil
}

func (s ParcelStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s ParcelStatus) IsTerminal() bool {
	return s == ParcelDelivered || s == ParcelCancelled
}

// IsEditable reports whether pickup/dropoff times may still change and
// whether the booking can still be paid for.
func (s ParcelStatus) IsEditable() bool {
	return s == ParcelNew || s == ParcelScheduled
}

// Next returns the forward successor of s, if any.
func (s ParcelStatus) Next() (ParcelStatus, bool) {
	for i, st := range forwardPath {
		if st == s && i+1 < len(forwardPath) {
			return forwardPath[i+1], true
		}
	}
	return "", false
}

func (s ParcelStatus) CanTransitionTo(target ParcelStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == ParcelCancelled {
		return true
	}
	next, ok := s.Next()
	return ok && next == target
}

// Transition validates a move and returns an *InvalidTransitionError when it
// is not allowed.
func (s ParcelStatus) Transition(target ParcelStatus) error {
	if !s.CanTransitionTo(target) {
		return &InvalidTransitionError{From: s, To: target}
	}
	return nil
}

func (s ParcelStatus) Label() string {
	return StatusLabel(s)
}

// StatusLabel returns the display name used by both portals.
func StatusLabel(s ParcelStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

type Booking struct {
	ID                  int64             `json:"-"`
	BookingID           string            `json:"bookingId"`
	CustomerID          int64             `json:"customerId"`
	ReceiverName        string            `json:"receiverName"`
	ReceiverAddress     string            `json:"receiverAddress"`
	ReceiverPin         string            `json:"receiverPin"`
	ReceiverMobile      string            `json:"receiverMobile"`
	WeightInGram        int               `json:"weightInGram"`
	ContentsDescription string            `json:"contentsDescription"`
	DeliveryType        DeliveryType      `json:"deliveryType"`
	PackingPreference   PackingPreference `json:"packingPreference"`
	PickupTime          time.Time         `json:"pickupTime"`
	DropoffTime         time.Time         `json:"dropoffTime"`
	ServiceCost         float64           `json:"serviceCost"`
	ParcelStatus        ParcelStatus      `json:"parcelStatus"`
	PaymentTime         *time.Time        `json:"paymentTime,omitempty"`
	CreatedBy           int64             `json:"createdBy"`
	Version             int64             `json:"version"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// ValidateWindow checks the pickup/dropoff pair on its own.
func ValidateWindow(pickup, dropoff time.Time) error {
	if pickup.IsZero() {
		return NewValidationError("pickupTime", "pickup time is required")
	}
	if dropoff.IsZero() {
		return NewValidationError("dropoffTime", "dropoff time is required")
	}
	if dropoff.Before(pickup) {
		return NewValidationError("dropoffTime", "dropoff time must not be earlier than pickup time")
	}
	return nil
}

type BookingStatusEvent struct {
	ID         int64        `json:"id" gorm:"primaryKey"`
	BookingID  string       `json:"bookingId" gorm:"type:varchar(32);not null;index"`
	FromStatus ParcelStatus `json:"fromStatus" gorm:"type:varchar(20);not null"`
	ToStatus   ParcelStatus `json:"toStatus" gorm:"type:varchar(20);not null"`
	ActorID    int64        `json:"actorId" gorm:"not null"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"not null"`
}

func (BookingStatusEvent) TableName() string { return "booking_status_events" }

// StatusUpdate is pushed to connected customers after a committed change.
type StatusUpdate struct {
	Type        string       `json:"type"`
	BookingID   string       `json:"bookingId"`
	FromStatus  ParcelStatus `json:"fromStatus"`
	ToStatus    ParcelStatus `json:"toStatus"`
	StatusLabel string       `json:"statusLabel"`
	ChangedAt   time.Time    `json:"changedAt"`
}

func NewStatusUpdate(e BookingStatusEvent) StatusUpdate {
	return StatusUpdate{
		Type:        "status_changed",
		BookingID:   e.BookingID,
		FromStatus:  e.FromStatus,
		ToStatus:    e.ToStatus,
		StatusLabel: StatusLabel(e.ToStatus),
		ChangedAt:   e.CreatedAt,
	}
}
