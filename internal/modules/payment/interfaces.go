package payment

import (
	"context"

	"courier/internal/domain"
)

type bookingStore interface {
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetForUpdate(ctx context.Context, bookingID string) (*domain.Booking, error)
	Save(ctx context.Context, b *domain.Booking, expectedVersion int64) error
	AppendEvent(ctx context.Context, e *domain.BookingStatusEvent) error
}

type paymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetSuccessfulByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
}

type customerReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// InvoiceCache returns nil, nil on a miss.
type InvoiceCache interface {
	Get(ctx context.Context, bookingID string) (*domain.Invoice, error)
	Set(ctx context.Context, inv *domain.Invoice) error
}

type statusPublisher interface {
	PublishStatus(customerID int64, update domain.StatusUpdate)
}
