package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"courier/internal/domain"
)

var (
	expiryPattern = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	cardSeparator = strings.NewReplacer(" ", "", "-", "")
)

func normalizeCardNumber(n string) string {
	return cardSeparator.Replace(strings.TrimSpace(n))
}

// validateCard checks the card locally before any charge is attempted. An
// expiry in the current month is still valid.
func validateCard(card CardDetails, now time.Time) error {
	number := normalizeCardNumber(card.CardNumber)
	if len(number) != 16 || !allDigits(number) {
		return domain.NewValidationError("cardNumber", "card number must be 16 digits")
	}
	if !luhnValid(number) {
		return domain.NewValidationError("cardNumber", "card number is not valid")
	}

	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(card.ExpiryDate))
	if m == nil {
		return domain.NewValidationError("expiryDate", "expiry date must be in MM/YY format")
	}
	month, _ := strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return domain.NewValidationError("expiryDate", "expiry month must be between 01 and 12")
	}
	year := 2000 + yy
	if year < now.Year() || (year == now.Year() && time.Month(month) < now.Month()) {
		return domain.NewValidationError("expiryDate", "card has expired")
	}

	if !cvvPattern.MatchString(strings.TrimSpace(card.CVV)) {
		return domain.NewValidationError("cvv", "CVV must be 3 or 4 digits")
	}
	if strings.TrimSpace(card.CardholderName) == "" {
		return domain.NewValidationError("cardholderName", "cardholder name is required")
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// maskCardNumber keeps only the last four digits.
func maskCardNumber(n string) string {
	digits := normalizeCardNumber(n)
	if len(digits) < 4 {
		return "****-****-****-****"
	}
	return "****-****-****-" + digits[len(digits)-4:]
}
