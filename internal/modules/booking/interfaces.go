package booking

import (
	"context"

	"courier/internal/domain"
	"courier/internal/repository"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetForUpdate(ctx context.Context, bookingID string) (*domain.Booking, error)
	Save(ctx context.Context, b *domain.Booking, expectedVersion int64) error
	List(ctx context.Context, f repository.BookingFilter, limit, offset int) ([]domain.Booking, int64, error)
	AppendEvent(ctx context.Context, e *domain.BookingStatusEvent) error
	History(ctx context.Context, bookingID string) ([]domain.BookingStatusEvent, error)
}

type CustomerReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatusPublisher delivers committed status changes to the owning customer.
type StatusPublisher interface {
	PublishStatus(customerID int64, update domain.StatusUpdate)
}
