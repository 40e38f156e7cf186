package payment

import "courier/internal/domain"

type DeclineError struct {
	Reason string
}

func (e *DeclineError) Error() string {
	return "payment declined: " + e.Reason
}

func (e *DeclineError) Is(target error) bool { return target == domain.ErrPaymentDeclined }
