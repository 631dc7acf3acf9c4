package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/detection"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

func eur(amount float64) money.Money {
	return money.NewFromFloat(amount, money.CurrencyEUR)
}

// catalog is a small but representative rule set: a subsumable
// constraint, the lift fee, a service and a percentage surcharge.
func catalog(t *testing.T) *rule.Set {
	t.Helper()
	set, err := rule.NewSet([]*rule.Rule{
		{
			ID: detection.ConstraintDifficultStairs, Name: "Escalier difficile",
			Value: decimal.NewFromInt(80), Category: rule.CategoryConstraint, Priority: 10,
			Condition: &rule.Condition{Kind: rule.KindSecurity, ConstraintID: detection.ConstraintDifficultStairs},
		},
		{
			ID: rule.FurnitureLiftRuleID, Name: "Monte-meuble",
			Value: decimal.NewFromInt(200), Category: rule.CategoryEquipment, Priority: 20,
			Condition: &rule.Condition{Kind: rule.KindEquipment, RequiresLift: true},
		},
		{
			ID: "packing", Name: "Emballage", Value: decimal.NewFromInt(50),
			Category: rule.CategoryService, Priority: 30,
			Condition: &rule.Condition{Kind: rule.KindService, ServiceID: "packing"},
		},
		{
			ID: "volume_surcharge", Name: "Gros volume", Value: decimal.NewFromInt(10),
			Percentage: true, Priority: 40,
			Expression: "volume > 30.0",
		},
	})
	if err != nil {
		t.Fatalf("catalog construction failed: %v", err)
	}
	return set
}

// TestExecuteLiftScenario verifies the end-to-end path when an address
// requires a lift: the fee bills once, the constraint is consumed
func TestExecuteLiftScenario(t *testing.T) {
	eng := New(catalog(t), DefaultConfig())

	quote := &types.QuoteContext{
		Pickup: types.AddressData{
			Floor: 6, Elevator: types.ElevatorNone,
			Constraints: []string{detection.ConstraintDifficultStairs},
		},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}

	res, err := eng.Execute(quote, eur(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.FinalPrice.Equal(eur(600)) {
		t.Errorf("expected 600.00 EUR (base + lift fee), got %s", res.FinalPrice)
	}
	if !res.LiftRequired {
		t.Error("expected lift requirement on the result")
	}
	if !detection.Contains(res.ConsumedConstraints, detection.ConstraintDifficultStairs) {
		t.Error("declared difficult_stairs should be consumed")
	}
	if res.InferenceMetadata == nil {
		t.Error("expected inference metadata on a final computation")
	}
	if res.ExecutionID == "" {
		t.Error("expected a non-empty execution id")
	}
	if res.ComputedAt.IsZero() {
		t.Error("expected a computation timestamp")
	}
	if res.TotalRulesEvaluated != 4 {
		t.Errorf("expected 4 rules evaluated, got %d", res.TotalRulesEvaluated)
	}
}

// TestExecuteNoLiftScenario verifies a declared constraint bills
// normally at low floors and the lift fee stays out
func TestExecuteNoLiftScenario(t *testing.T) {
	eng := New(catalog(t), DefaultConfig())

	quote := &types.QuoteContext{
		Pickup: types.AddressData{
			Floor: 2, Elevator: types.ElevatorNone,
			Constraints: []string{detection.ConstraintDifficultStairs},
		},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}

	res, err := eng.Execute(quote, eur(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.FinalPrice.Equal(eur(480)) {
		t.Errorf("expected 480.00 EUR (base + stairs), got %s", res.FinalPrice)
	}
	if res.LiftRequired {
		t.Error("no lift should be required at floor 2")
	}
	if len(res.InferredConstraints) != 0 {
		t.Errorf("nothing should be inferred without a lift, got %v", res.InferredConstraints)
	}
}

// TestExecuteCombinedSurcharges verifies service and percentage rules
// stack on the running price alongside the lift path
func TestExecuteCombinedSurcharges(t *testing.T) {
	volume := 45.0
	eng := New(catalog(t), DefaultConfig())

	quote := &types.QuoteContext{
		Pickup:         types.AddressData{Floor: 6, Elevator: types.ElevatorNone},
		Delivery:       types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
		Volume:         &volume,
		GlobalServices: []string{"packing"},
	}

	res, err := eng.Execute(quote, eur(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 400 + 200 lift + 50 packing = 650, then 10% of 650 = 65.
	if !res.FinalPrice.Equal(eur(715)) {
		t.Errorf("expected 715.00 EUR, got %s", res.FinalPrice)
	}
	if res.TotalRulesApplied != 3 {
		t.Errorf("expected 3 rules applied, got %d", res.TotalRulesApplied)
	}
}

// TestExecuteIsDeterministic verifies identical input yields identical
// prices across executions
func TestExecuteIsDeterministic(t *testing.T) {
	eng := New(catalog(t), DefaultConfig())

	quote := &types.QuoteContext{
		Pickup:   types.AddressData{Floor: 8, Elevator: types.ElevatorSmall},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}

	first, err := eng.Execute(quote, eur(350))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.Execute(quote, eur(350))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.FinalPrice.Equal(second.FinalPrice) {
		t.Errorf("prices differ: %s vs %s", first.FinalPrice, second.FinalPrice)
	}
	if first.ExecutionID == second.ExecutionID {
		t.Error("execution ids must be unique per computation")
	}
}

// TestExecuteRejectsInvalidInput verifies no partial result escapes
func TestExecuteRejectsInvalidInput(t *testing.T) {
	eng := New(catalog(t), DefaultConfig())

	if _, err := eng.Execute(nil, eur(100)); err == nil {
		t.Error("expected error for nil quote")
	}

	valid := &types.QuoteContext{
		Pickup:   types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}
	if _, err := eng.Execute(valid, eur(-10)); err == nil {
		t.Error("expected error for negative base price")
	}

	invalid := &types.QuoteContext{
		Pickup:   types.AddressData{Floor: -3, Elevator: types.ElevatorNone},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}
	if _, err := eng.Execute(invalid, eur(100)); err == nil {
		t.Error("expected error for invalid address")
	}
}
