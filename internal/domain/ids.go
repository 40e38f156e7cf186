package domain

import (
	"strings"

	"github.com/google/uuid"
)

func newID(prefix string, n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:n])
}

func NewBookingID() string     { return newID("BK", 12) }
func NewPaymentID() string     { return newID("PAY", 12) }
func NewTransactionID() string { return newID("TXN", 12) }

// NewUniqueID is the login handle shown to customers and officers.
func NewUniqueID(role Role) string {
	if role == RoleOfficer {
		return newID("OFF", 8)
	}
	return newID("CUST", 8)
}
