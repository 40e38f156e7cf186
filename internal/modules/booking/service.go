package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"courier/internal/domain"
	"courier/internal/pkg/validator"
	"courier/internal/repository"
)

// Requests built from a form a few seconds ago must not fail the
// "pickup is not in the past" check.
const clockSkew = time.Minute

type Service struct {
	bookings  BookingRepository
	customers CustomerReader
	tx        Transactor
	publisher StatusPublisher
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	customers CustomerReader,
	tx Transactor,
	publisher StatusPublisher,
	log *logrus.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		customers: customers,
		tx:        tx,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	now := s.now()
	dt, pp, err := validateCreate(req, now)
	if err != nil {
		return nil, err
	}

	ownerID := actor.CustomerID
	switch {
	case actor.IsOfficer():
		if req.CustomerID <= 0 {
			return nil, domain.NewValidationError("customerId", "customerId is required when booking on behalf of a customer")
		}
		c, err := s.customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		if c.Role != domain.RoleCustomer {
			return nil, domain.NewValidationError("customerId", "customerId must refer to a customer account")
		}
		ownerID = c.ID
	case actor.Role != domain.RoleCustomer:
		return nil, fmt.Errorf("%w: unknown role", domain.ErrForbidden)
	}

	b := &domain.Booking{
		BookingID:           domain.NewBookingID(),
		CustomerID:          ownerID,
		ReceiverName:        strings.TrimSpace(req.ReceiverName),
		ReceiverAddress:     strings.TrimSpace(req.ReceiverAddress),
		ReceiverPin:         req.ReceiverPin,
		ReceiverMobile:      req.ReceiverMobile,
		WeightInGram:        req.WeightInGram,
		ContentsDescription: strings.TrimSpace(req.ContentsDescription),
		DeliveryType:        dt,
		PackingPreference:   pp,
		PickupTime:          req.PickupTime.UTC(),
		DropoffTime:         req.DropoffTime.UTC(),
		ServiceCost:         domain.ServiceCost(dt, pp),
		ParcelStatus:        domain.ParcelNew,
		CreatedBy:           actor.CustomerID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.bookings.Create(ctx, b); err != nil {
			return err
		}
		return s.bookings.AppendEvent(ctx, &domain.BookingStatusEvent{
			BookingID: b.BookingID,
			ToStatus:  domain.ParcelNew,
			ActorID:   actor.CustomerID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":   b.BookingID,
		"customer_id":  b.CustomerID,
		"actor_id":     actor.CustomerID,
		"service_cost": b.ServiceCost,
	}).Info("booking created")

	return b, nil
}

func validateCreate(req CreateBookingRequest, now time.Time) (domain.DeliveryType, domain.PackingPreference, error) {
	if req.WeightInGram <= 0 {
		return "", "", domain.NewValidationError("weightInGram", "weightInGram must be greater than 0")
	}
	dt, err := domain.ParseDeliveryType(req.DeliveryType)
	if err != nil {
		return "", "", err
	}
	pp, err := domain.ParsePackingPreference(req.PackingPreference)
	if err != nil {
		return "", "", err
	}
	if err := domain.ValidateWindow(req.PickupTime, req.DropoffTime); err != nil {
		return "", "", err
	}
	if req.PickupTime.Before(now.Add(-clockSkew)) {
		return "", "", domain.NewValidationError("pickupTime", "pickup time must not be in the past")
	}
	if err := validator.Struct(req); err != nil {
		return "", "", err
	}
	return dt, pp, nil
}

// UpdateStatus moves a parcel one step forward, or cancels it.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, bookingID, newStatus string) (*domain.Booking, error) {
	if !actor.IsOfficer() {
		return nil, fmt.Errorf("%w: only officers can update parcel status", domain.ErrForbidden)
	}
	target, err := domain.ParseParcelStatus(newStatus)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, bookingID, func(b *domain.Booking) error {
		if err := b.ParcelStatus.Transition(target); err != nil {
			return err
		}
		b.ParcelStatus = target
		return nil
	})
}

func (s *Service) Reschedule(ctx context.Context, actor domain.Actor, bookingID string, req ScheduleRequest) (*domain.Booking, error) {
	if err := domain.ValidateWindow(req.PickupTime, req.DropoffTime); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, bookingID, func(b *domain.Booking) error {
		if !b.ParcelStatus.IsEditable() {
			return domain.InvalidState(b.BookingID, b.ParcelStatus, "reschedule")
		}
		b.PickupTime = req.PickupTime.UTC()
		b.DropoffTime = req.DropoffTime.UTC()
		return nil
	})
}

// SchedulePickup sets the pickup window and marks a NEW booking SCHEDULED
// in the same transaction.
func (s *Service) SchedulePickup(ctx context.Context, actor domain.Actor, bookingID string, req ScheduleRequest) (*domain.Booking, error) {
	if !actor.IsOfficer() {
		return nil, fmt.Errorf("%w: only officers can schedule pickups", domain.ErrForbidden)
	}
	if err := domain.ValidateWindow(req.PickupTime, req.DropoffTime); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, bookingID, func(b *domain.Booking) error {
		if !b.ParcelStatus.IsEditable() {
			return domain.InvalidState(b.BookingID, b.ParcelStatus, "schedule pickup for")
		}
		b.PickupTime = req.PickupTime.UTC()
		b.DropoffTime = req.DropoffTime.UTC()
		if b.ParcelStatus == domain.ParcelNew {
			b.ParcelStatus = domain.ParcelScheduled
		}
		return nil
	})
}

func (s *Service) Cancel(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	return s.mutate(ctx, actor, bookingID, func(b *domain.Booking) error {
		if err := b.ParcelStatus.Transition(domain.ParcelCancelled); err != nil {
			return err
		}
		b.ParcelStatus = domain.ParcelCancelled
		return nil
	})
}

// mutate applies fn to a locked booking and persists the result together
// with a status event when the status changed. The change is published
// only after commit.
func (s *Service) mutate(ctx context.Context, actor domain.Actor, bookingID string, fn func(b *domain.Booking) error) (*domain.Booking, error) {
	var (
		updated *domain.Booking
		event   *domain.BookingStatusEvent
	)

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(b.CustomerID) {
			return forbidden(bookingID)
		}

		from, version := b.ParcelStatus, b.Version
		if err := fn(b); err != nil {
			return err
		}

		b.UpdatedAt = s.now()
		if err := s.bookings.Save(ctx, b, version); err != nil {
			return err
		}

		if b.ParcelStatus != from {
			event = &domain.BookingStatusEvent{
				BookingID:  b.BookingID,
				FromStatus: from,
				ToStatus:   b.ParcelStatus,
				ActorID:    actor.CustomerID,
				CreatedAt:  b.UpdatedAt,
			}
			if err := s.bookings.AppendEvent(ctx, event); err != nil {
				return err
			}
		}

		updated = b
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_id": bookingID,
			"actor_id":   actor.CustomerID,
		}).Warn("booking change rejected")
		return nil, err
	}

	if event != nil {
		s.publish(updated.CustomerID, *event)
	}
	return updated, nil
}

func (s *Service) publish(customerID int64, e domain.BookingStatusEvent) {
	s.log.WithFields(logrus.Fields{
		"booking_id": e.BookingID,
		"from":       e.FromStatus,
		"status":     e.ToStatus,
		"actor_id":   e.ActorID,
	}).Info("parcel status changed")

	if s.publisher != nil {
		s.publisher.PublishStatus(customerID, domain.NewStatusUpdate(e))
	}
}

func (s *Service) List(ctx context.Context, actor domain.Actor, q ListQuery) (*domain.Page[domain.Booking], error) {
	if err := q.PageRequest.Validate(); err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{CustomerID: q.CustomerID}
	switch {
	case actor.IsOfficer():
	case actor.Role == domain.RoleCustomer:
		filter.CustomerID = actor.CustomerID
	default:
		return nil, fmt.Errorf("%w: unknown role", domain.ErrForbidden)
	}

	rows, total, err := s.bookings.List(ctx, filter, q.PageSize, q.Offset())
	if err != nil {
		return nil, err
	}
	page := domain.NewPage(rows, total, q.PageRequest)
	return &page, nil
}

func (s *Service) Get(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b.CustomerID) {
		return nil, forbidden(bookingID)
	}
	return b, nil
}

func (s *Service) History(ctx context.Context, actor domain.Actor, bookingID string) ([]domain.BookingStatusEvent, error) {
	if _, err := s.Get(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	events, err := s.bookings.History(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.BookingStatusEvent{}
	}
	return events, nil
}

func (s *Service) Track(ctx context.Context, actor domain.Actor, bookingID string) (*TrackingView, error) {
	b, err := s.Get(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	events, err := s.bookings.History(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.BookingStatusEvent{}
	}
	return &TrackingView{
		Booking:     b,
		StatusLabel: domain.StatusLabel(b.ParcelStatus),
		History:     events,
	}, nil
}

func forbidden(bookingID string) error {
	return fmt.Errorf("%w: booking %s belongs to another customer", domain.ErrForbidden, bookingID)
}
