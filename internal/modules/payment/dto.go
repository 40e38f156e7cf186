package payment

import "courier/internal/domain"

// CardDetails is validated by the service so that malformed cards still
// leave a FAILED attempt behind.
type CardDetails struct {
	CardNumber     string `json:"cardNumber" example:"4242 4242 4242 4242"`
	ExpiryDate     string `json:"expiryDate" example:"12/30"`
	CVV            string `json:"cvv" example:"123"`
	CardholderName string `json:"cardholderName" example:"Asha Rao"`
}

type PaymentResponse struct {
	Payment *domain.Payment `json:"payment"`
	Booking *domain.Booking `json:"booking"`
}

type ErrorBody struct {
	Code    string `json:"code" example:"VALIDATION_ERROR"`
	Message string `json:"message" example:"card number is not valid"`
}

type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}
