package payment

import (
	"context"

	"courier/internal/domain"
)

type ChargeRequest struct {
	BookingID      string
	Amount         float64
	CardNumber     string
	CardholderName string
}

type ChargeResult struct {
	TransactionID string
}

// Gateway charges a card. A refusal is reported as *DeclineError; any other
// error means the charge outcome is unknown.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SimulatedGateway approves every card except the well-known test numbers.
type SimulatedGateway struct {
	declines map[string]string
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		declines: map[string]string{
			"4000000000000002": "Insufficient funds",
			"4000000000000069": "Card expired",
			"4000000000000119": "Processing error",
		},
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reason, ok := g.declines[normalizeCardNumber(req.CardNumber)]; ok {
		return nil, &DeclineError{Reason: reason}
	}
	return &ChargeResult{TransactionID: domain.NewTransactionID()}, nil
}
