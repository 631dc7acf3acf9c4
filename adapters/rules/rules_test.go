package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
)

const yamlDoc = `
rules:
  - id: high_floor_surcharge
    name: High floor at pickup
    value: 10
    percentage: true
    priority: 20
    condition:
      kind: building
      side: pickup
      min_floor: 4
  - id: furniture_lift
    name: Monte-meuble
    value: 200
    category: equipment
    priority: 30
    condition:
      kind: equipment
      requires_lift: true
  - id: loyalty_discount
    name: Remise fidélité
    value: -25
    category: reduction
    priority: 90
    expression: 'volume > 20.0'
`

const hclDoc = `
rule "high_floor_surcharge" {
  name       = "High floor at pickup"
  value      = 10
  percentage = true
  priority   = 20
  condition {
    kind      = "building"
    side      = "pickup"
    min_floor = 4
  }
}

rule "furniture_lift" {
  name     = "Monte-meuble"
  value    = 200
  category = "equipment"
  priority = 30
  condition {
    kind          = "equipment"
    requires_lift = true
  }
}
`

// TestParseYAML verifies YAML rule documents decode and validate
func TestParseYAML(t *testing.T) {
	parsed, err := ParseYAML([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(parsed))
	}

	surcharge := parsed[0]
	if !surcharge.Percentage || !surcharge.Value.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unexpected surcharge rule: %+v", surcharge)
	}
	if surcharge.Condition == nil || surcharge.Condition.Kind != rule.KindBuilding {
		t.Errorf("expected building condition, got %+v", surcharge.Condition)
	}
	if surcharge.Condition.MinFloor != 4 {
		t.Errorf("expected min_floor 4, got %d", surcharge.Condition.MinFloor)
	}

	lift := parsed[1]
	if !lift.IsLiftFee() {
		t.Error("furniture_lift should be recognized as the lift fee")
	}

	discount := parsed[2]
	if discount.Category != rule.CategoryReduction || !discount.Value.IsNegative() {
		t.Errorf("unexpected discount rule: %+v", discount)
	}
	if discount.Expression == "" {
		t.Error("expected discount expression preserved")
	}
}

// TestParseYAMLRejectsInvalidRule verifies validation runs at load time
func TestParseYAMLRejectsInvalidRule(t *testing.T) {
	bad := `
rules:
  - id: over_limit
    name: Bad percentage
    value: 150
    percentage: true
`
	if _, err := ParseYAML([]byte(bad)); err == nil {
		t.Error("expected validation error for percentage over 100")
	}
}

// TestParseHCL verifies HCL rule blocks decode and validate
func TestParseHCL(t *testing.T) {
	parsed, err := ParseHCL([]byte(hclDoc), "rules.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(parsed))
	}

	if parsed[0].ID != "high_floor_surcharge" {
		t.Errorf("expected block label as id, got %s", parsed[0].ID)
	}
	if parsed[0].Condition == nil || parsed[0].Condition.Side != "pickup" {
		t.Errorf("expected pickup side condition, got %+v", parsed[0].Condition)
	}
	if parsed[1].Condition == nil || !parsed[1].Condition.RequiresLift {
		t.Errorf("expected requires_lift condition, got %+v", parsed[1].Condition)
	}
}

// TestParseHCLRejectsMalformedDocument verifies syntax errors surface
func TestParseHCLRejectsMalformedDocument(t *testing.T) {
	if _, err := ParseHCL([]byte(`rule "x" {`), "broken.hcl"); err == nil {
		t.Error("expected parse error for unterminated block")
	}
}

// TestFromFile verifies the extension dispatch returns compiled sets
func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	hclPath := filepath.Join(dir, "rules.hcl")
	if err := os.WriteFile(hclPath, []byte(hclDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := FromFile(context.Background(), yamlPath)
	if err != nil {
		t.Fatalf("yaml: unexpected error: %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("yaml: expected 3 rules in set, got %d", set.Len())
	}
	// The CEL expression compiled with the set.
	if _, ok := set.Program("loyalty_discount"); !ok {
		t.Error("yaml: expected compiled program for loyalty_discount")
	}

	set, err = FromFile(context.Background(), hclPath)
	if err != nil {
		t.Fatalf("hcl: unexpected error: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("hcl: expected 2 rules in set, got %d", set.Len())
	}

	if _, err := FromFile(context.Background(), filepath.Join(dir, "rules.toml")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
