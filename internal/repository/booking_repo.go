package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courier/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	BookingID           string     `gorm:"column:booking_id;type:varchar(32);uniqueIndex;not null"`
	CustomerID          int64      `gorm:"column:customer_id;not null;index"`
	ReceiverName        string     `gorm:"column:receiver_name;type:varchar(100);not null"`
	ReceiverAddress     string     `gorm:"column:receiver_address;type:text;not null"`
	ReceiverPin         string     `gorm:"column:receiver_pin;type:varchar(10);not null"`
	ReceiverMobile      string     `gorm:"column:receiver_mobile;type:varchar(20);not null"`
	WeightInGram        int        `gorm:"column:weight_in_gram;not null"`
	ContentsDescription string     `gorm:"column:contents_description;type:text"`
	DeliveryType        string     `gorm:"column:delivery_type;type:varchar(16);not null"`
	PackingPreference   string     `gorm:"column:packing_preference;type:varchar(16);not null"`
	PickupTime          time.Time  `gorm:"column:pickup_time;not null"`
	DropoffTime         time.Time  `gorm:"column:dropoff_time;not null"`
	ServiceCost         float64    `gorm:"column:service_cost;not null"`
	ParcelStatus        string     `gorm:"column:parcel_status;type:varchar(20);not null;index"`
	PaymentTime         *time.Time `gorm:"column:payment_time"`
	CreatedBy           int64      `gorm:"column:created_by"`
	Version             int64      `gorm:"column:version;not null;default:1"`
	CreatedAt           time.Time  `gorm:"column:created_at;index"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:                  m.ID,
		BookingID:           m.BookingID,
		CustomerID:          m.CustomerID,
		ReceiverName:        m.ReceiverName,
		ReceiverAddress:     m.ReceiverAddress,
		ReceiverPin:         m.ReceiverPin,
		ReceiverMobile:      m.ReceiverMobile,
		WeightInGram:        m.WeightInGram,
		ContentsDescription: m.ContentsDescription,
		DeliveryType:        domain.DeliveryType(m.DeliveryType),
		PackingPreference:   domain.PackingPreference(m.PackingPreference),
		PickupTime:          m.PickupTime,
		DropoffTime:         m.DropoffTime,
		ServiceCost:         m.ServiceCost,
		ParcelStatus:        domain.ParcelStatus(m.ParcelStatus),
		PaymentTime:         m.PaymentTime,
		CreatedBy:           m.CreatedBy,
		Version:             m.Version,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:                  b.ID,
		BookingID:           b.BookingID,
		CustomerID:          b.CustomerID,
		ReceiverName:        b.ReceiverName,
		ReceiverAddress:     b.ReceiverAddress,
		ReceiverPin:         b.ReceiverPin,
		ReceiverMobile:      b.ReceiverMobile,
		WeightInGram:        b.WeightInGram,
		ContentsDescription: b.ContentsDescription,
		DeliveryType:        string(b.DeliveryType),
		PackingPreference:   string(b.PackingPreference),
		PickupTime:          b.PickupTime,
		DropoffTime:         b.DropoffTime,
		ServiceCost:         b.ServiceCost,
		ParcelStatus:        string(b.ParcelStatus),
		PaymentTime:         b.PaymentTime,
		CreatedBy:           b.CreatedBy,
		Version:             b.Version,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.Version == 0 {
		b.Version = 1
	}
	m := toBookingModel(b)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return r.get(conn(ctx, r.db), bookingID)
}

// GetForUpdate loads the row under a write lock when the dialect supports it.
// Call it inside TxManager.InTx.
func (r *BookingRepository) GetForUpdate(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return r.get(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), bookingID)
}

func (r *BookingRepository) get(q *gorm.DB, bookingID string) (*domain.Booking, error) {
	var m bookingModel
	if err := q.Where("booking_id = ?", bookingID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("booking", bookingID)
		}
		return nil, err
	}
	return toDomainBooking(m), nil
}

// Save writes the mutable columns if the row still carries expectedVersion,
// then advances b.Version. A lost race yields domain.ErrConflict.
func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking, expectedVersion int64) error {
	res := conn(ctx, r.db).Model(&bookingModel{}).
		Where("booking_id = ? AND version = ?", b.BookingID, expectedVersion).
		Updates(map[string]interface{}{
			"pickup_time":   b.PickupTime,
			"dropoff_time":  b.DropoffTime,
			"parcel_status": string(b.ParcelStatus),
			"payment_time":  b.PaymentTime,
			"version":       expectedVersion + 1,
			"updated_at":    b.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	b.Version = expectedVersion + 1
	return nil
}

type BookingFilter struct {
	CustomerID int64
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter, limit, offset int) ([]domain.Booking, int64, error) {
	q := conn(ctx, r.db).Model(&bookingModel{})
	if f.CustomerID > 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []bookingModel
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, total, nil
}

func (r *BookingRepository) AppendEvent(ctx context.Context, e *domain.BookingStatusEvent) error {
	return conn(ctx, r.db).Create(e).Error
}

func (r *BookingRepository) History(ctx context.Context, bookingID string) ([]domain.BookingStatusEvent, error) {
	var events []domain.BookingStatusEvent
	err := conn(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").Order("id ASC").
		Find(&events).Error
	return events, err
}
