package domain

import (
	"fmt"
	"strings"
)

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "STANDARD"
	DeliveryExpress  DeliveryType = "EXPRESS"
	DeliverySameDay  DeliveryType = "SAME_DAY"
)

type PackingPreference string

const (
	PackingBasic   PackingPreference = "BASIC"
	PackingPremium PackingPreference = "PREMIUM"
)

var deliveryRates = map[DeliveryType]float64{
	DeliveryStandard: 30,
	DeliveryExpress:  80,
	DeliverySameDay:  150,
}

var packingRates = map[PackingPreference]float64{
	PackingBasic:   50,
	PackingPremium: 150,
}

func ParseDeliveryType(s string) (DeliveryType, error) {
	dt := DeliveryType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := deliveryRates[dt]; !ok {
		return "", NewValidationError("deliveryType", fmt.Sprintf("unknown delivery type %q", s))
	}
	return dt, nil
}

func ParsePackingPreference(s string) (PackingPreference, error) {
	pp := PackingPreference(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := packingRates[pp]; !ok {
		return "", NewValidationError("packingPreference", fmt.Sprintf("unknown packing preference %q", s))
	}
	return pp, nil
}

func (d DeliveryType) Rate() float64      { return deliveryRates[d] }
func (p PackingPreference) Rate() float64 { return packingRates[p] }

// ServiceCost is the price the customer pays. Weight does not affect it.
func ServiceCost(d DeliveryType, p PackingPreference) float64 {
	return d.Rate() + p.Rate()
}

type PricingTable struct {
	Delivery map[DeliveryType]float64      `json:"delivery"`
	Packing  map[PackingPreference]float64 `json:"packing"`
}

func Pricing() PricingTable {
	t := PricingTable{
		Delivery: make(map[DeliveryType]float64, len(deliveryRates)),
		Packing:  make(map[PackingPreference]float64, len(packingRates)),
	}
	for k, v := range deliveryRates {
		t.Delivery[k] = v
	}
	for k, v := range packingRates {
		t.Packing[k] = v
	}
	return t
}
