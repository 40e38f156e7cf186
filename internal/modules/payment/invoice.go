package payment

import "courier/internal/domain"

// buildInvoice fills the booking and payment part; the customer part is
// added by applyCustomer.
func buildInvoice(issuer domain.Issuer, b *domain.Booking, p *domain.Payment) *domain.Invoice {
	return &domain.Invoice{
		InvoiceNumber: domain.InvoiceNumber(b.BookingID),
		Issuer:        issuer,

		BookingID:           b.BookingID,
		ReceiverName:        b.ReceiverName,
		ReceiverAddress:     b.ReceiverAddress,
		ReceiverPin:         b.ReceiverPin,
		ReceiverMobile:      b.ReceiverMobile,
		WeightInGram:        b.WeightInGram,
		ContentsDescription: b.ContentsDescription,
		DeliveryType:        b.DeliveryType,
		PackingPreference:   b.PackingPreference,
		PickupTime:          b.PickupTime,
		DropoffTime:         b.DropoffTime,
		DeliveryCharge:      b.DeliveryType.Rate(),
		PackingCharge:       b.PackingPreference.Rate(),
		ServiceCost:         b.ServiceCost,

		PaymentID:         p.PaymentID,
		TransactionID:     p.TransactionID,
		TransactionType:   p.TransactionType,
		TransactionAmount: p.TransactionAmount,
		TransactionDate:   p.TransactionDate,
		CardNumber:        p.CardNumber,
		CardholderName:    p.CardholderName,
	}
}

func applyCustomer(inv *domain.Invoice, c *domain.Customer) {
	inv.CustomerName = c.Name
	inv.CustomerEmail = c.Email
	inv.CustomerMobile = c.CountryCode + c.MobileNumber
	inv.CustomerAddress = c.Address
}
