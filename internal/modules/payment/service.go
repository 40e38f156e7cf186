package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"courier/internal/domain"
)

type Service struct {
	bookings  bookingStore
	payments  paymentRepo
	customers customerReader
	tx        transactor
	gateway   Gateway
	cache     InvoiceCache
	publisher statusPublisher
	issuer    domain.Issuer
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(
	bookings bookingStore,
	payments paymentRepo,
	customers customerReader,
	tx transactor,
	gateway Gateway,
	log *logrus.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		payments:  payments,
		customers: customers,
		tx:        tx,
		gateway:   gateway,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithInvoiceCache(cache InvoiceCache) *Service {
	s.cache = cache
	return s
}

func (s *Service) WithPublisher(p statusPublisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) WithIssuer(issuer domain.Issuer) *Service {
	s.issuer = issuer
	return s
}

// ProcessPayment charges the booking's service cost. Rejected cards and
// gateway declines are recorded as FAILED attempts and the booking is left
// untouched; the FAILED attempt is returned together with the error. A
// successful charge moves the booking to BOOKED in the same transaction as
// the payment row.
func (s *Service) ProcessPayment(ctx context.Context, actor domain.Actor, bookingID string, card CardDetails) (*domain.Payment, *domain.Booking, error) {
	var (
		paid    *domain.Payment
		booking *domain.Booking
		event   *domain.BookingStatusEvent
		failed  *domain.Payment
		failure error
	)

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(b.CustomerID) {
			return fmt.Errorf("%w: booking %s belongs to another customer", domain.ErrForbidden, bookingID)
		}

		existing, err := s.payments.GetSuccessfulByBookingID(ctx, bookingID)
		switch {
		case err == nil && existing != nil:
			return fmt.Errorf("%w: booking %s", domain.ErrAlreadyPaid, bookingID)
		case err != nil && !errors.Is(err, domain.ErrNoPayment):
			return err
		}

		if b.ParcelStatus != domain.ParcelNew && b.ParcelStatus != domain.ParcelScheduled {
			return domain.InvalidState(bookingID, b.ParcelStatus, "pay for")
		}

		now := s.now()
		attempt := &domain.Payment{
			PaymentID:         domain.NewPaymentID(),
			BookingID:         b.BookingID,
			CustomerID:        b.CustomerID,
			TransactionAmount: b.ServiceCost,
			TransactionType:   domain.TransactionCredit,
			CardNumber:        maskCardNumber(card.CardNumber),
			CardholderName:    strings.TrimSpace(card.CardholderName),
			TransactionDate:   now,
		}

		if err := validateCard(card, now); err != nil {
			failed, failure = attempt, err
			return s.recordFailure(ctx, attempt, err.Error())
		}

		charge, err := s.gateway.Charge(ctx, ChargeRequest{
			BookingID:      b.BookingID,
			Amount:         b.ServiceCost,
			CardNumber:     normalizeCardNumber(card.CardNumber),
			CardholderName: attempt.CardholderName,
		})
		if err != nil {
			var decline *DeclineError
			if !errors.As(err, &decline) {
				return fmt.Errorf("charge booking %s: %w", bookingID, err)
			}
			failed, failure = attempt, err
			return s.recordFailure(ctx, attempt, decline.Reason)
		}

		attempt.TransactionID = charge.TransactionID
		attempt.TransactionStatus = domain.TransactionSuccess
		if err := s.payments.Create(ctx, attempt); err != nil {
			return err
		}

		from, version := b.ParcelStatus, b.Version
		b.ParcelStatus = domain.ParcelBooked
		b.PaymentTime = &now
		b.UpdatedAt = now
		if err := s.bookings.Save(ctx, b, version); err != nil {
			return err
		}

		event = &domain.BookingStatusEvent{
			BookingID:  b.BookingID,
			FromStatus: from,
			ToStatus:   b.ParcelStatus,
			ActorID:    actor.CustomerID,
			CreatedAt:  now,
		}
		if err := s.bookings.AppendEvent(ctx, event); err != nil {
			return err
		}

		paid, booking = attempt, b
		return nil
	})
	entry := s.log.WithFields(logrus.Fields{"booking_id": bookingID, "actor_id": actor.CustomerID})
	if err != nil {
		entry.WithError(err).Warn("payment rejected")
		return nil, nil, err
	}
	if failure != nil {
		entry.WithFields(logrus.Fields{
			"payment_id": failed.PaymentID,
			"reason":     failed.FailureReason,
		}).Warn("payment attempt failed")
		return failed, nil, failure
	}

	entry.WithFields(logrus.Fields{
		"payment_id":     paid.PaymentID,
		"transaction_id": paid.TransactionID,
		"amount":         paid.TransactionAmount,
	}).Info("payment succeeded")
	if s.publisher != nil {
		s.publisher.PublishStatus(booking.CustomerID, domain.NewStatusUpdate(*event))
	}
	return paid, booking, nil
}

func (s *Service) recordFailure(ctx context.Context, attempt *domain.Payment, reason string) error {
	attempt.TransactionID = domain.NewTransactionID()
	attempt.TransactionStatus = domain.TransactionFailed
	attempt.FailureReason = reason
	return s.payments.Create(ctx, attempt)
}

func (s *Service) GetPayment(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Payment, error) {
	if _, err := s.accessibleBooking(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return s.payments.GetSuccessfulByBookingID(ctx, bookingID)
}

// GenerateInvoice builds the invoice for a paid booking. The cache holds the
// booking and payment part only; customer contact details are always read
// fresh because they can change after payment. With stamp set the returned
// copy carries the generation time; cached entries never do.
func (s *Service) GenerateInvoice(ctx context.Context, actor domain.Actor, bookingID string, stamp bool) (*domain.Invoice, error) {
	b, err := s.accessibleBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	inv := s.cachedInvoice(ctx, bookingID)
	if inv == nil {
		p, err := s.payments.GetSuccessfulByBookingID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		inv = buildInvoice(s.issuer, b, p)
		if s.cache != nil {
			if err := s.cache.Set(ctx, inv); err != nil {
				s.log.WithError(err).WithField("booking_id", bookingID).Warn("invoice cache write failed")
			}
		}
	}

	customer, err := s.customers.GetByID(ctx, b.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load invoice customer: %w", err)
	}

	out := s.stamped(inv, stamp)
	applyCustomer(out, customer)
	return out, nil
}

func (s *Service) cachedInvoice(ctx context.Context, bookingID string) *domain.Invoice {
	if s.cache == nil {
		return nil
	}
	inv, err := s.cache.Get(ctx, bookingID)
	if err != nil {
		s.log.WithError(err).WithField("booking_id", bookingID).Warn("invoice cache read failed")
		return nil
	}
	return inv
}

func (s *Service) stamped(inv *domain.Invoice, stamp bool) *domain.Invoice {
	out := *inv
	out.GeneratedAt = nil
	if stamp {
		now := s.now()
		out.GeneratedAt = &now
	}
	return &out
}

func (s *Service) accessibleBooking(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b.CustomerID) {
		return nil, fmt.Errorf("%w: booking %s belongs to another customer", domain.ErrForbidden, bookingID)
	}
	return b, nil
}
