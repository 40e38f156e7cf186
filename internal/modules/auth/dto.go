package auth

import "courier/internal/domain"

type RegisterRequest struct {
	CustomerName    string `json:"customerName" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	CountryCode     string `json:"countryCode" validate:"required,max=8"`
	MobileNumber    string `json:"mobileNumber" validate:"required,mobile"`
	Address         string `json:"address" validate:"required,min=10,max=500"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	GetUpdatesVia   string `json:"getUpdatesVia" validate:"required,oneof=EMAIL SMS BOTH"`
}

// LoginRequest accepts either the issued uniqueId or the email address.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateContactRequest leaves nil fields unchanged.
type UpdateContactRequest struct {
	CountryCode   *string `json:"countryCode,omitempty" validate:"omitempty,max=8"`
	MobileNumber  *string `json:"mobileNumber,omitempty" validate:"omitempty,mobile"`
	Address       *string `json:"address,omitempty" validate:"omitempty,min=10,max=500"`
	GetUpdatesVia *string `json:"getUpdatesVia,omitempty" validate:"omitempty,oneof=EMAIL SMS BOTH"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type AuthResult struct {
	Customer *domain.Customer `json:"customer"`
	Token    string           `json:"token"`
}
