package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"courier/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create stores an attempt. A second SUCCESS row for the same booking
// violates idx_payments_booking_success and maps to domain.ErrAlreadyPaid.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if err := conn(ctx, r.db).Create(p).Error; err != nil {
		if p.TransactionStatus == domain.TransactionSuccess && isUniqueConstraintError(err) {
			return domain.ErrAlreadyPaid
		}
		return err
	}
	return nil
}

func (r *PaymentRepository) GetSuccessfulByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var p domain.Payment
	err := conn(ctx, r.db).
		Where("booking_id = ? AND transaction_status = ?", bookingID, domain.TransactionSuccess).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoPayment
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByBookingID(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := conn(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	return out, err
}
