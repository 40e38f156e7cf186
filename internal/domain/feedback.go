package domain

import "time"

const (
	MinRating              = 1
	MaxRating              = 5
	MinFeedbackDescription = 10
	MaxFeedbackDescription = 500
)

type Feedback struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	CustomerID          int64     `json:"customerId" gorm:"not null;uniqueIndex:idx_feedback_customer_booking"`
	BookingID           string    `json:"bookingId" gorm:"type:varchar(32);not null;uniqueIndex:idx_feedback_customer_booking"`
	Rating              int       `json:"rating" gorm:"not null"`
	FeedbackDescription string    `json:"feedbackDescription" gorm:"type:text;not null"`
	CreatedAt           time.Time `json:"createdAt"`

	CustomerName string `json:"customerName,omitempty" gorm:"->;-:migration"`
}

func (Feedback) TableName() string { return "feedbacks" }
