package repository

import (
	"context"

	"gorm.io/gorm"

	"courier/internal/domain"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	if err := conn(ctx, r.db).Omit("CustomerName").Create(f).Error; err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateFeedback
		}
		return err
	}
	return nil
}

func (r *FeedbackRepository) Exists(ctx context.Context, customerID int64, bookingID string) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&domain.Feedback{}).
		Where("customer_id = ? AND booking_id = ?", customerID, bookingID).
		Count(&cnt).Error
	return cnt > 0, err
}

// List returns feedback newest first, joined with the author's name.
func (r *FeedbackRepository) List(ctx context.Context, limit, offset int) ([]domain.Feedback, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&domain.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Feedback
	err := conn(ctx, r.db).
		Table("feedbacks").
		Select("feedbacks.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = feedbacks.customer_id").
		Order("feedbacks.created_at DESC").Order("feedbacks.id DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
