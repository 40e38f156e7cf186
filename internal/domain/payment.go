package domain

import "time"

type TransactionStatus string

// TransactionPending is never produced by the simulated gateway; an
// asynchronous gateway would record it before the charge settles.
const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionSuccess, TransactionFailed:
		return true
	}
	return false
}

type TransactionType string

const TransactionCredit TransactionType = "CREDIT"

// Payment is one charge attempt. At most one SUCCESS row exists per booking.
type Payment struct {
	ID                int64             `json:"-" gorm:"primaryKey"`
	PaymentID         string            `json:"paymentId" gorm:"type:varchar(32);uniqueIndex;not null"`
	TransactionID     string            `json:"transactionId" gorm:"type:varchar(32);uniqueIndex;not null"`
	BookingID         string            `json:"bookingId" gorm:"type:varchar(32);not null;index"`
	CustomerID        int64             `json:"customerId" gorm:"not null;index"`
	TransactionAmount float64           `json:"transactionAmount" gorm:"not null"`
	TransactionType   TransactionType   `json:"transactionType" gorm:"type:varchar(16);not null"`
	TransactionStatus TransactionStatus `json:"transactionStatus" gorm:"type:varchar(16);not null"`
	FailureReason     string            `json:"failureReason,omitempty" gorm:"type:text"`
	CardNumber        string            `json:"cardNumber" gorm:"type:varchar(32)"`
	CardholderName    string            `json:"cardholderName" gorm:"type:varchar(100)"`
	TransactionDate   time.Time         `json:"transactionDate" gorm:"not null"`
	CreatedAt         time.Time         `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) Succeeded() bool { return p.TransactionStatus == TransactionSuccess }

type Issuer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Invoice is a read-only view over a paid booking.
type Invoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Issuer        Issuer `json:"issuer"`

	BookingID           string            `json:"bookingId"`
	ReceiverName        string            `json:"receiverName"`
	ReceiverAddress     string            `json:"receiverAddress"`
	ReceiverPin         string            `json:"receiverPin"`
	ReceiverMobile      string            `json:"receiverMobile"`
	WeightInGram        int               `json:"weightInGram"`
	ContentsDescription string            `json:"contentsDescription"`
	DeliveryType        DeliveryType      `json:"deliveryType"`
	PackingPreference   PackingPreference `json:"packingPreference"`
	PickupTime          time.Time         `json:"pickupTime"`
	DropoffTime         time.Time         `json:"dropoffTime"`
	DeliveryCharge      float64           `json:"deliveryCharge"`
	PackingCharge       float64           `json:"packingCharge"`
	ServiceCost         float64           `json:"serviceCost"`

	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerMobile  string `json:"customerMobile"`
	CustomerAddress string `json:"customerAddress"`

	PaymentID         string          `json:"paymentId"`
	TransactionID     string          `json:"transactionId"`
	TransactionType   TransactionType `json:"transactionType"`
	TransactionAmount float64         `json:"transactionAmount"`
	TransactionDate   time.Time       `json:"transactionDate"`
	CardNumber        string          `json:"cardNumber"`
	CardholderName    string          `json:"cardholderName"`

	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

func InvoiceNumber(bookingID string) string { return "INV" + bookingID }
