package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"courier/internal/domain"
	"courier/internal/repository"
)

type BookingGate interface {
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
}

type Service struct {
	feedback *repository.FeedbackRepository
	bookings BookingGate
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(feedback *repository.FeedbackRepository, bookings BookingGate, log *logrus.Logger) *Service {
	return &Service{
		feedback: feedback,
		bookings: bookings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddFeedback records a customer's rating of one of their own bookings.
// Each customer may rate a booking once.
func (s *Service) AddFeedback(ctx context.Context, actor domain.Actor, req CreateFeedbackRequest) (*domain.Feedback, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can leave feedback", domain.ErrForbidden)
	}

	description := strings.TrimSpace(req.FeedbackDescription)
	if err := validateFeedback(req.Rating, description); err != nil {
		return nil, err
	}

	bookingID := strings.TrimSpace(req.BookingID)
	b, err := s.bookings.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actor.CustomerID {
		return nil, fmt.Errorf("%w: booking %s belongs to another customer", domain.ErrForbidden, bookingID)
	}

	exists, err := s.feedback.Exists(ctx, actor.CustomerID, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateFeedback
	}

	fb := &domain.Feedback{
		CustomerID:          actor.CustomerID,
		BookingID:           bookingID,
		Rating:              req.Rating,
		FeedbackDescription: description,
		CreatedAt:           s.now(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":  bookingID,
		"customer_id": actor.CustomerID,
		"rating":      fb.Rating,
	}).Info("feedback recorded")
	return fb, nil
}

func validateFeedback(rating int, description string) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.NewValidationError("rating",
			fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	n := utf8.RuneCountInString(description)
	if n < domain.MinFeedbackDescription || n > domain.MaxFeedbackDescription {
		return domain.NewValidationError("feedbackDescription",
			fmt.Sprintf("feedback description must be between %d and %d characters",
				domain.MinFeedbackDescription, domain.MaxFeedbackDescription))
	}
	return nil
}

func (s *Service) ListFeedback(ctx context.Context, actor domain.Actor, q domain.PageRequest) (*domain.Page[domain.Feedback], error) {
	if !actor.IsOfficer() {
		return nil, fmt.Errorf("%w: officer role required", domain.ErrForbidden)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	items, total, err := s.feedback.List(ctx, q.PageSize, q.Offset())
	if err != nil {
		return nil, err
	}
	page := domain.NewPage(items, total, q)
	return &page, nil
}
