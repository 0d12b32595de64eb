package promo

import (
	"errors"
	"testing"
)

func TestResolveCaseInsensitive(t *testing.T) {
	reg := NewRegistry([]Rule{{Code: "sweet20", Kind: KindPercent, PercentBps: 2000}})
	for _, code := range []string{"SWEET20", "sweet20", " Sweet20 "} {
		rule, err := reg.Resolve(code)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", code, err)
		}
		if rule.Code != "SWEET20" {
			t.Fatalf("expected normalized code SWEET20, got %q", rule.Code)
		}
	}
}

func TestResolveUnknownAndEmpty(t *testing.T) {
	reg := NewRegistry([]Rule{{Code: "SWEET20", Kind: KindPercent, PercentBps: 2000}})
	if _, err := reg.Resolve("XYZ"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
	if _, err := reg.Resolve("   "); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound for blank code, got %v", err)
	}
}

func TestDiscountPercent(t *testing.T) {
	rule := Rule{Kind: KindPercent, PercentBps: 2000}
	if got := Discount(10000, rule); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
}

func TestDiscountFixedClamped(t *testing.T) {
	rule := Rule{Kind: KindFixed, Value: 3000}
	if got := Discount(1500, rule); got != 1500 {
		t.Fatalf("expected clamp to 1500, got %d", got)
	}
	if got := Discount(0, rule); got != 0 {
		t.Fatalf("expected 0 for empty subtotal, got %d", got)
	}
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("SWEET20:percent:2000, firstorder:fixed:3000 ,DISCOUNT10:percent:1000")
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	reg := NewRegistry(rules)
	rule, err := reg.Resolve("FIRSTORDER")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rule.Kind != KindFixed || rule.Value != 3000 {
		t.Fatalf("unexpected FIRSTORDER rule: %+v", rule)
	}
}

func TestParseRulesRejectsMalformed(t *testing.T) {
	for _, spec := range []string{"SWEET20:percent", "X:oops:10", "X:percent:-5", "X:percent:20000", ":percent:10"} {
		if _, err := ParseRules(spec); !errors.Is(err, ErrInvalidRule) {
			t.Fatalf("expected ErrInvalidRule for %q, got %v", spec, err)
		}
	}
}
