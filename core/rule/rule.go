// Package rule defines pricing rules and their compiled, shareable sets.
package rule

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// Category classifies a rule's billing nature
type Category string

const (
	// CategoryConstraint is a surcharge caused by a physical access constraint
	CategoryConstraint Category = "constraint"

	// CategoryService is an additional service requested by the client
	CategoryService Category = "additional_service"

	// CategoryEquipment is hired equipment such as a furniture lift
	CategoryEquipment Category = "equipment"

	// CategoryReduction is a discount
	CategoryReduction Category = "reduction"

	// CategoryTemporal is a date-driven surcharge (weekend, holiday, night)
	CategoryTemporal Category = "temporal"

	// CategoryMinimum marks a minimum-price floor rule. Its value is a price
	// floor, not a delta, and is never folded into the running price.
	CategoryMinimum Category = "minimum"
)

// FurnitureLiftRuleID is the reserved identity of the furniture lift fee.
// The lift fee itself is never skipped by constraint consumption.
const FurnitureLiftRuleID = "furniture_lift"

// Rule is a single immutable business rule.
// Rule sets are read-only for the lifetime of a computation and may be
// shared across concurrent computations.
type Rule struct {
	// ID is the opaque rule identifier
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable rule name
	Name string `json:"name" yaml:"name"`

	// Value is the rule amount: a percentage when Percentage is set,
	// otherwise a fixed delta in the computation currency
	Value decimal.Decimal `json:"value" yaml:"value"`

	// Percentage marks Value as a percentage of the running price
	Percentage bool `json:"percentage" yaml:"percentage"`

	// Category is the declared billing category
	Category Category `json:"category" yaml:"category"`

	// Priority orders application; lower priorities apply first
	Priority int `json:"priority" yaml:"priority"`

	// Scope is the declared address scope, used when resolution
	// cannot determine a more specific one
	Scope string `json:"scope,omitempty" yaml:"scope"`

	// Condition is the structured applicability predicate, if any
	Condition *Condition `json:"condition,omitempty" yaml:"condition"`

	// Expression is an optional CEL applicability expression evaluated
	// against the enriched context
	Expression string `json:"expression,omitempty" yaml:"expression"`
}

// Validate checks rule invariants
func (r *Rule) Validate() error {
	if r.ID == "" {
		return errors.Rule("rule id must not be empty")
	}
	if r.Name == "" {
		return errors.Rulef("rule %s: name must not be empty", r.ID)
	}
	if r.Percentage {
		if !r.Value.IsPositive() || r.Value.GreaterThan(decimal.NewFromInt(100)) {
			return errors.Rulef("rule %s: percentage value must be in (0, 100], got %s", r.ID, r.Value)
		}
	}
	if r.Condition != nil {
		if err := r.Condition.Validate(); err != nil {
			return errors.Wrapf(errors.TypeRule, err, "rule %s: invalid condition", r.ID)
		}
	}
	return nil
}

// IsLiftFee reports whether this rule is the furniture lift fee itself,
// matched by reserved identity or by name
func (r *Rule) IsLiftFee() bool {
	if r.ID == FurnitureLiftRuleID {
		return true
	}
	name := strings.ToLower(r.Name)
	return strings.Contains(name, "furniture lift") || strings.Contains(name, "monte-meuble")
}

// IsMinimumPrice reports whether this rule is a minimum-price floor
func (r *Rule) IsMinimumPrice() bool {
	return r.Category == CategoryMinimum
}

// SortByPriority returns a copy of rules ordered by ascending priority.
// Equal priorities keep their input order so loading order stays stable.
func SortByPriority(rules []*Rule) []*Rule {
	sorted := make([]*Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
