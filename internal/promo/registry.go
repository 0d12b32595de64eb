package promo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/dessert-shop/internal/pricing"
)

var (
	// ErrCodeNotFound is returned when a promo code is unknown or empty.
	ErrCodeNotFound = errors.New("promo code not found")
	// ErrInvalidRule indicates a malformed rule definition in configuration.
	ErrInvalidRule = errors.New("invalid promo rule")
)

// Kind enumerates the supported discount rule variants.
type Kind string

const (
	KindPercent Kind = "percent"
	KindFixed   Kind = "fixed"
)

// Rule captures a single promo code and its discount rule. Percentage
// discounts are expressed in basis points; fixed discounts in minor units.
type Rule struct {
	Code       string
	Kind       Kind
	PercentBps int32
	Value      pricing.Money
}

// Discount computes the raw discount the rule grants against the given
// subtotal, clamped to [0, subtotal].
func Discount(subtotal pricing.Money, r Rule) pricing.Money {
	if subtotal <= 0 {
		return 0
	}
	discount := r.Value
	if r.Kind == KindPercent {
		if r.PercentBps <= 0 {
			return 0
		}
		discount = (subtotal * pricing.Money(r.PercentBps)) / 10000
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		return 0
	}
	return discount
}

// Registry maps normalized promo codes to their discount rules. It is
// immutable after construction.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry builds a registry from the provided rules. Codes are normalized
// to uppercase; later duplicates win.
func NewRegistry(rules []Rule) *Registry {
	m := make(map[string]Rule, len(rules))
	for _, r := range rules {
		code := Normalize(r.Code)
		if code == "" {
			continue
		}
		r.Code = code
		m[code] = r
	}
	return &Registry{rules: m}
}

// Resolve looks up a code case-insensitively. Empty and unknown codes both
// report ErrCodeNotFound so callers surface a single invalid-code outcome.
func (r *Registry) Resolve(code string) (Rule, error) {
	if r == nil {
		return Rule{}, ErrCodeNotFound
	}
	normalized := Normalize(code)
	if normalized == "" {
		return Rule{}, ErrCodeNotFound
	}
	rule, ok := r.rules[normalized]
	if !ok {
		return Rule{}, ErrCodeNotFound
	}
	return rule, nil
}

// Normalize trims surrounding whitespace and uppercases a promo code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseRules parses a comma-separated rule table of the form
// "CODE:kind:amount". Percent amounts are basis points, fixed amounts minor
// units, e.g. "SWEET20:percent:2000,FIRSTORDER:fixed:3000".
func ParseRules(table string) ([]Rule, error) {
	if strings.TrimSpace(table) == "" {
		return nil, nil
	}
	parts := strings.Split(table, ",")
	rules := make([]Rule, 0, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRule, entry)
		}
		code := Normalize(fields[0])
		if code == "" {
			return nil, fmt.Errorf("%w: empty code in %q", ErrInvalidRule, entry)
		}
		amount, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil || amount < 0 {
			return nil, fmt.Errorf("%w: bad amount in %q", ErrInvalidRule, entry)
		}
		switch Kind(strings.ToLower(strings.TrimSpace(fields[1]))) {
		case KindPercent:
			if amount > 10000 {
				return nil, fmt.Errorf("%w: percent above 100%% in %q", ErrInvalidRule, entry)
			}
			rules = append(rules, Rule{Code: code, Kind: KindPercent, PercentBps: int32(amount)})
		case KindFixed:
			rules = append(rules, Rule{Code: code, Kind: KindFixed, Value: amount})
		default:
			return nil, fmt.Errorf("%w: unknown kind in %q", ErrInvalidRule, entry)
		}
	}
	return rules, nil
}
