package feedback

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/pkg/logger"
	"courier/internal/repository"
	"courier/internal/repository/repotest"
)

var fixedNow = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	bookings *repository.BookingRepository
	customer *domain.Customer
	other    *domain.Customer
	officer  *domain.Customer
}

func (f *fixture) asCustomer() domain.Actor {
	return domain.Actor{CustomerID: f.customer.ID, Role: domain.RoleCustomer}
}

func (f *fixture) asOther() domain.Actor {
	return domain.Actor{CustomerID: f.other.ID, Role: domain.RoleCustomer}
}

func (f *fixture) asOfficer() domain.Actor {
	return domain.Actor{CustomerID: f.officer.ID, Role: domain.RoleOfficer}
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	customers := repository.NewCustomerRepository(db)

	f := &fixture{bookings: repository.NewBookingRepository(db)}

	ctx := context.Background()
	mk := func(name string, role domain.Role) *domain.Customer {
		c := &domain.Customer{UniqueID: domain.NewUniqueID(role), Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
		require.NoError(t, customers.Create(ctx, c))
		return c
	}
	f.customer = mk("asha", domain.RoleCustomer)
	f.other = mk("ravi", domain.RoleCustomer)
	f.officer = mk("officer", domain.RoleOfficer)

	f.svc = NewService(repository.NewFeedbackRepository(db), f.bookings, logger.Discard())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) booking(t *testing.T, owner *domain.Customer) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		BookingID:         domain.NewBookingID(),
		CustomerID:        owner.ID,
		ReceiverName:      "Meera Nair",
		ReceiverAddress:   "14 Residency Road",
		ReceiverPin:       "560025",
		ReceiverMobile:    "9876543210",
		WeightInGram:      500,
		DeliveryType:      domain.DeliveryStandard,
		PackingPreference: domain.PackingBasic,
		PickupTime:        fixedNow.Add(time.Hour),
		DropoffTime:       fixedNow.Add(25 * time.Hour),
		ServiceCost:       80,
		ParcelStatus:      domain.ParcelDelivered,
		CreatedBy:         owner.ID,
		CreatedAt:         fixedNow,
		UpdatedAt:         fixedNow,
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func TestService_AddFeedback_Success(t *testing.T) {
	f := setupService(t)
	b := f.booking(t, f.customer)

	fb, err := f.svc.AddFeedback(context.Background(), f.asCustomer(), CreateFeedbackRequest{
		BookingID:           b.BookingID,
		Rating:              5,
		FeedbackDescription: "  Arrived a day early, well packed.  ",
	})
	require.NoError(t, err)

	assert.NotZero(t, fb.ID)
	assert.Equal(t, f.customer.ID, fb.CustomerID)
	assert.Equal(t, "Arrived a day early, well packed.", fb.FeedbackDescription)
	assert.True(t, fb.CreatedAt.Equal(fixedNow))
}

func TestService_AddFeedback_Validation(t *testing.T) {
	f := setupService(t)
	b := f.booking(t, f.customer)

	tests := []struct {
		name  string
		req   CreateFeedbackRequest
		field string
	}{
		{"rating too low", CreateFeedbackRequest{BookingID: b.BookingID, Rating: 0, FeedbackDescription: "Good enough service"}, "rating"},
		{"rating too high", CreateFeedbackRequest{BookingID: b.BookingID, Rating: 6, FeedbackDescription: "Good enough service"}, "rating"},
		{"too short after trim", CreateFeedbackRequest{BookingID: b.BookingID, Rating: 3, FeedbackDescription: "   ok fine   "}, "feedbackDescription"},
		{"too long", CreateFeedbackRequest{BookingID: b.BookingID, Rating: 3, FeedbackDescription: strings.Repeat("a", 501)}, "feedbackDescription"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddFeedback(context.Background(), f.asCustomer(), tt.req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestService_AddFeedback_CountsRunes(t *testing.T) {
	f := setupService(t)
	b := f.booking(t, f.customer)

	_, err := f.svc.AddFeedback(context.Background(), f.asCustomer(), CreateFeedbackRequest{
		BookingID:           b.BookingID,
		Rating:              4,
		FeedbackDescription: strings.Repeat("é", 9),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AddFeedback(context.Background(), f.asCustomer(), CreateFeedbackRequest{
		BookingID:           b.BookingID,
		Rating:              4,
		FeedbackDescription: strings.Repeat("é", 10),
	})
	require.NoError(t, err)

	other := f.booking(t, f.customer)
	_, err = f.svc.AddFeedback(context.Background(), f.asCustomer(), CreateFeedbackRequest{
		BookingID:           other.BookingID,
		Rating:              4,
		FeedbackDescription: strings.Repeat("é", 500),
	})
	require.NoError(t, err)
}

func TestService_AddFeedback_Duplicate(t *testing.T) {
	f := setupService(t)
	b := f.booking(t, f.customer)
	req := CreateFeedbackRequest{BookingID: b.BookingID, Rating: 4, FeedbackDescription: "Quick pickup, friendly courier"}

	_, err := f.svc.AddFeedback(context.Background(), f.asCustomer(), req)
	require.NoError(t, err)

	_, err = f.svc.AddFeedback(context.Background(), f.asCustomer(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicateFeedback)
}

func TestService_AddFeedback_Access(t *testing.T) {
	f := setupService(t)
	b := f.booking(t, f.customer)
	req := CreateFeedbackRequest{BookingID: b.BookingID, Rating: 4, FeedbackDescription: "Quick pickup, friendly courier"}

	_, err := f.svc.AddFeedback(context.Background(), f.asOther(), req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.AddFeedback(context.Background(), f.asOfficer(), req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	req.BookingID = "BK000000000000"
	_, err = f.svc.AddFeedback(context.Background(), f.asCustomer(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ListFeedback(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		b := f.booking(t, f.customer)
		f.svc.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Minute) }
		fb, err := f.svc.AddFeedback(ctx, f.asCustomer(), CreateFeedbackRequest{
			BookingID:           b.BookingID,
			Rating:              i + 3,
			FeedbackDescription: "Delivered on time, thanks",
		})
		require.NoError(t, err)
		ids = append(ids, fb.ID)
	}

	page, err := f.svc.ListFeedback(ctx, f.asOfficer(), domain.PageRequest{Page: 0, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, ids[2], page.Content[0].ID)
	assert.Equal(t, ids[1], page.Content[1].ID)
	assert.Equal(t, "asha", page.Content[0].CustomerName)

	last, err := f.svc.ListFeedback(ctx, f.asOfficer(), domain.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last.Content, 1)
	assert.Equal(t, ids[0], last.Content[0].ID)

	_, err = f.svc.ListFeedback(ctx, f.asCustomer(), domain.PageRequest{PageSize: 10})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.ListFeedback(ctx, f.asOfficer(), domain.PageRequest{PageSize: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
