package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/apply"
	"github.com/S-COULIBALY/express-quote-sub008/core/detection"
	"github.com/S-COULIBALY/express-quote-sub008/core/enrichment"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

func eur(amount float64) money.Money {
	return money.NewFromFloat(amount, money.CurrencyEUR)
}

func runPipeline(t *testing.T, quote *types.QuoteContext, basePrice money.Money, rules ...*rule.Rule) *ExecutionResult {
	t.Helper()
	set, err := rule.NewSet(rules)
	if err != nil {
		t.Fatalf("rule set construction failed: %v", err)
	}
	ec, err := enrichment.NewEnricher(0).Enrich(quote, set)
	if err != nil {
		t.Fatalf("enrichment failed: %v", err)
	}
	return Finalize(basePrice, apply.NewApplier().Apply(set, ec, basePrice))
}

func groundFloorQuote() *types.QuoteContext {
	return &types.QuoteContext{
		Pickup:   types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}
}

// TestClassify verifies the single-category classification order
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rule rule.Rule
		want rule.Category
	}{
		{"negative value is a reduction regardless of category",
			rule.Rule{Name: "Remise fidélité", Value: decimal.NewFromInt(-30), Category: rule.CategoryService},
			rule.CategoryReduction},
		{"temporal vocabulary beats declared category",
			rule.Rule{Name: "Majoration week-end", Value: decimal.NewFromInt(25), Category: rule.CategoryService},
			rule.CategoryTemporal},
		{"holiday name in french",
			rule.Rule{Name: "Jour férié", Value: decimal.NewFromInt(40)},
			rule.CategoryTemporal},
		{"declared category respected",
			rule.Rule{Name: "Accès difficile", Value: decimal.NewFromInt(60), Category: rule.CategoryConstraint},
			rule.CategoryConstraint},
		{"equipment vocabulary",
			rule.Rule{Name: "Monte-meuble", Value: decimal.NewFromInt(200)},
			rule.CategoryEquipment},
		{"undeclared percentage defaults to constraint",
			rule.Rule{Name: "Surcharge", Value: decimal.NewFromInt(10), Percentage: true},
			rule.CategoryConstraint},
		{"undeclared fixed defaults to service",
			rule.Rule{Name: "Forfait cartons", Value: decimal.NewFromInt(15)},
			rule.CategoryService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(&tt.rule); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestMinimumPriceFloorApplied verifies the floor lifts a low final price
func TestMinimumPriceFloorApplied(t *testing.T) {
	res := runPipeline(t, groundFloorQuote(), eur(100),
		&rule.Rule{ID: "fee", Name: "Frais fixes", Value: decimal.NewFromInt(20), Priority: 1},
		&rule.Rule{ID: "minimum", Name: "Prix minimum", Value: decimal.NewFromInt(500),
			Category: rule.CategoryMinimum, Priority: 99},
	)

	if !res.FinalPrice.Equal(eur(500)) {
		t.Errorf("expected floored final price 500.00 EUR, got %s", res.FinalPrice)
	}
	if !res.MinimumPriceApplied {
		t.Error("expected minimum price marked as applied")
	}
	if !res.MinimumPriceAmount.Equal(eur(500)) {
		t.Errorf("expected recorded floor of 500.00 EUR, got %s", res.MinimumPriceAmount)
	}
}

// TestMinimumPriceFloorNotApplied verifies a price above the floor is
// untouched while the floor is still recorded
func TestMinimumPriceFloorNotApplied(t *testing.T) {
	res := runPipeline(t, groundFloorQuote(), eur(800),
		&rule.Rule{ID: "minimum", Name: "Prix minimum", Value: decimal.NewFromInt(500),
			Category: rule.CategoryMinimum, Priority: 99},
	)

	if !res.FinalPrice.Equal(eur(800)) {
		t.Errorf("expected 800.00 EUR, got %s", res.FinalPrice)
	}
	if res.MinimumPriceApplied {
		t.Error("floor must not be marked applied above the minimum")
	}
}

// TestNegativeFinalPriceClampsToZero verifies reductions cannot push the
// final price below zero
func TestNegativeFinalPriceClampsToZero(t *testing.T) {
	res := runPipeline(t, groundFloorQuote(), eur(50),
		&rule.Rule{ID: "promo", Name: "Remise exceptionnelle", Value: decimal.NewFromInt(-80),
			Category: rule.CategoryReduction, Priority: 1},
	)

	if !res.FinalPrice.Equal(eur(0)) {
		t.Errorf("expected clamp to 0.00 EUR, got %s", res.FinalPrice)
	}
	if !res.TotalReductions.Equal(eur(80)) {
		t.Errorf("reduction total is a magnitude: expected 80.00 EUR, got %s", res.TotalReductions)
	}
}

// TestAddressPartitionSumsToDelta verifies the three address buckets
// partition the price delta exactly, with both-scope impacts split in half
func TestAddressPartitionSumsToDelta(t *testing.T) {
	quote := groundFloorQuote()
	quote.PickupServices = []string{"packing"}
	quote.DeliveryServices = []string{"packing"}

	res := runPipeline(t, quote, eur(200),
		&rule.Rule{ID: "packing", Name: "Emballage", Value: decimal.NewFromInt(50), Priority: 1,
			Condition: &rule.Condition{Kind: rule.KindService, ServiceID: "packing"}},
		&rule.Rule{ID: "loading", Name: "Supplément chargement", Value: decimal.NewFromInt(30), Priority: 2},
		&rule.Rule{ID: "delivery_fee", Name: "Livraison étage", Value: decimal.NewFromInt(40), Priority: 3},
		&rule.Rule{ID: "admin", Name: "Frais de dossier", Value: decimal.NewFromInt(25), Priority: 4},
	)

	delta := res.FinalPrice.Sub(res.BasePrice)
	sum := res.PickupCosts.Total.Add(res.DeliveryCosts.Total).Add(res.GlobalCosts.Total)
	if !sum.Equal(delta) {
		t.Errorf("address totals %s do not partition the delta %s", sum, delta)
	}

	// The doubled packing rule contributes one half to each address.
	if !res.PickupCosts.Total.Equal(eur(80)) {
		t.Errorf("pickup total: expected 80.00 EUR, got %s", res.PickupCosts.Total)
	}
	if !res.DeliveryCosts.Total.Equal(eur(90)) {
		t.Errorf("delivery total: expected 90.00 EUR, got %s", res.DeliveryCosts.Total)
	}
	if !res.GlobalCosts.Total.Equal(eur(25)) {
		t.Errorf("global total: expected 25.00 EUR, got %s", res.GlobalCosts.Total)
	}
}

// TestConsumedRulesStayInAuditTrailOnly verifies consumed rules appear in
// the flat trail but never in category views or totals
func TestConsumedRulesStayInAuditTrailOnly(t *testing.T) {
	quote := &types.QuoteContext{
		Pickup: types.AddressData{
			Floor: 7, Elevator: types.ElevatorNone,
			Constraints: []string{detection.ConstraintDifficultStairs},
		},
		Delivery: types.AddressData{Floor: 0, Elevator: types.ElevatorNone},
	}

	res := runPipeline(t, quote, eur(300),
		&rule.Rule{ID: detection.ConstraintDifficultStairs, Name: "Escalier difficile",
			Value: decimal.NewFromInt(80), Category: rule.CategoryConstraint, Priority: 1},
		&rule.Rule{ID: rule.FurnitureLiftRuleID, Name: "Monte-meuble",
			Value: decimal.NewFromInt(200), Category: rule.CategoryEquipment, Priority: 2,
			Condition: &rule.Condition{Kind: rule.KindEquipment, RequiresLift: true}},
	)

	var consumedInTrail bool
	for _, d := range res.AppliedRules {
		if d.RuleID == detection.ConstraintDifficultStairs && d.Consumed {
			consumedInTrail = true
			if !d.Impact.IsZero() {
				t.Errorf("consumed detail carries impact %s", d.Impact)
			}
		}
	}
	if !consumedInTrail {
		t.Error("consumed rule missing from the audit trail")
	}

	for _, d := range res.Constraints {
		if d.RuleID == detection.ConstraintDifficultStairs {
			t.Error("consumed rule leaked into the constraints view")
		}
	}
	if !res.TotalConstraints.IsZero() {
		t.Errorf("consumed rule must not contribute to totals, got %s", res.TotalConstraints)
	}

	// Only the lift fee bills.
	if !res.FinalPrice.Equal(eur(500)) {
		t.Errorf("expected 500.00 EUR, got %s", res.FinalPrice)
	}
	if !res.LiftRequired {
		t.Error("expected context-level lift requirement on the result")
	}
	if len(res.ConsumedConstraints) == 0 {
		t.Error("expected consumed constraint identifiers on the result")
	}
}

// TestSurchargeTotals verifies surcharges sum constraints and services
func TestSurchargeTotals(t *testing.T) {
	res := runPipeline(t, groundFloorQuote(), eur(100),
		&rule.Rule{ID: "access", Name: "Accès difficile", Value: decimal.NewFromInt(60),
			Category: rule.CategoryConstraint, Priority: 1},
		&rule.Rule{ID: "cartons", Name: "Forfait cartons", Value: decimal.NewFromInt(15), Priority: 2},
		&rule.Rule{ID: "weekend", Name: "Majoration week-end", Value: decimal.NewFromInt(25), Priority: 3},
	)

	if !res.TotalConstraints.Equal(eur(60)) {
		t.Errorf("expected 60.00 EUR in constraints, got %s", res.TotalConstraints)
	}
	// Temporal surcharges fold into the additional-services total.
	if !res.TotalAdditionalServices.Equal(eur(40)) {
		t.Errorf("expected 40.00 EUR in services, got %s", res.TotalAdditionalServices)
	}
	if !res.TotalSurcharges.Equal(eur(100)) {
		t.Errorf("expected 100.00 EUR in surcharges, got %s", res.TotalSurcharges)
	}
	if len(res.TemporalRules) != 1 {
		t.Errorf("expected 1 temporal rule in the view, got %d", len(res.TemporalRules))
	}
}
