package pricing

import (
	"fmt"
	"strings"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice Money
}

// DeliveryOption selects how an order is shipped.
type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
	DeliverySameDay  DeliveryOption = "same-day"
)

// ParseDeliveryOption normalizes a delivery option string. Empty input maps to
// standard delivery.
func ParseDeliveryOption(value string) (DeliveryOption, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(DeliveryStandard):
		return DeliveryStandard, nil
	case string(DeliveryExpress):
		return DeliveryExpress, nil
	case string(DeliverySameDay):
		return DeliverySameDay, nil
	default:
		return "", fmt.Errorf("unknown delivery option %q", value)
	}
}

// Rates holds the configured shipping fee schedule.
type Rates struct {
	FreeShippingMin Money
	StandardFee     Money
	ExpressFee      Money
	SameDayFee      Money
}

// ShippingFee resolves the shipping cost for the given option and subtotal.
// Standard delivery is free at or above the free-shipping threshold; express
// and same-day carry fixed fees regardless of subtotal.
func (r Rates) ShippingFee(opt DeliveryOption, subtotal Money) Money {
	switch opt {
	case DeliveryExpress:
		return r.ExpressFee
	case DeliverySameDay:
		return r.SameDayFee
	default:
		if subtotal >= r.FreeShippingMin {
			return 0
		}
		return r.StandardFee
	}
}

// Summary aggregates computed order pricing components.
type Summary struct {
	Subtotal Money
	Shipping Money
	Discount Money
	Total    Money
}

// Compute calculates order totals given the provided inputs. The discount is
// clamped to the subtotal, never to subtotal plus shipping, and the total never
// drops below zero.
func Compute(items []Item, opt DeliveryOption, discount Money, rates Rates) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}
	shipping := rates.ShippingFee(opt, subtotal)
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	total := subtotal + shipping - discount
	if total < 0 {
		total = 0
	}
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    total,
	}
}
