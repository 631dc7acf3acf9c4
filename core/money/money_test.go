package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

// TestRoundingHalfAwayFromZero verifies the rounding mode used for all
// currency amounts
func TestRoundingHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"round up on half", "2.345", "2.35"},
		{"round down below half", "2.344", "2.34"},
		{"negative rounds away from zero", "-2.345", "-2.35"},
		{"already rounded", "10.10", "10.10"},
		{"zero", "0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromString(tt.amount, CurrencyEUR)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := m.Round().Amount().StringFixed(Precision)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestApplyPercent verifies percentage application rounds consistently
func TestApplyPercent(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		percent  string
		expected string
	}{
		{"ten percent of 100", 100, "10", "10.00"},
		{"fractional percent rounds half up", 100, "10.175", "10.18"},
		{"percent of odd base", 333.33, "15", "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := decimal.NewFromString(tt.percent)
			got := NewFromFloat(tt.base, CurrencyEUR).ApplyPercent(p)
			if got.Amount().StringFixed(Precision) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestValueSemantics verifies operations never mutate the receiver
func TestValueSemantics(t *testing.T) {
	base := NewFromFloat(100, CurrencyEUR)
	_ = base.Add(NewFromFloat(50, CurrencyEUR))
	_ = base.Neg()
	_ = base.Mul(decimal.NewFromInt(3))

	if !base.Equal(NewFromFloat(100, CurrencyEUR)) {
		t.Errorf("base was mutated: %s", base)
	}
}

// TestChainedApplicationsDoNotDrift verifies rounding at every step keeps
// chained percentage applications stable
func TestChainedApplicationsDoNotDrift(t *testing.T) {
	running := NewFromFloat(987.65, CurrencyEUR)
	for i := 0; i < 10; i++ {
		delta := running.ApplyPercent(decimal.NewFromFloat(3.33))
		running = running.Add(delta)
	}

	rounded := running.Round()
	if !running.Equal(rounded) {
		t.Errorf("running price carries sub-cent residue: %s vs %s", running, rounded)
	}
}

// TestJSONRoundTrip verifies the wire shape
func TestJSONRoundTrip(t *testing.T) {
	m := NewFromFloat(1234.5, CurrencyEUR)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(m.Round()) {
		t.Errorf("round trip changed value: %s -> %s", m, back)
	}
	if back.Currency() != CurrencyEUR {
		t.Errorf("round trip lost currency: %s", back.Currency())
	}
}
