package domain

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOfficer  Role = "OFFICER"
)

func (r Role) IsValid() bool { return r == RoleCustomer || r == RoleOfficer }

type Customer struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UniqueID     string    `json:"uniqueId" gorm:"type:varchar(20);uniqueIndex;not null"`
	Name         string    `json:"customerName" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CountryCode  string    `json:"countryCode" gorm:"type:varchar(8)"`
	MobileNumber string    `json:"mobileNumber" gorm:"type:varchar(20)"`
	Address      string    `json:"address" gorm:"type:text"`
	UpdatesVia   string    `json:"getUpdatesVia" gorm:"type:varchar(16)"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }

// Actor is the authenticated caller of a service operation.
type Actor struct {
	CustomerID int64
	Role       Role
}

func (a Actor) IsOfficer() bool { return a.Role == RoleOfficer }

// CanAccess reports whether the actor may act on a resource owned by ownerID.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.IsOfficer() || (a.Role == RoleCustomer && a.CustomerID == ownerID)
}
