// Package aggregate folds applied-rule outcomes into the final execution
// result, with costs partitioned by address and a full audit trail.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/detection"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

// AppliedRuleDetail is one rule's entry in the audit trail
type AppliedRuleDetail struct {
	// RuleID is the rule identifier
	RuleID string `json:"rule_id"`

	// Name is the rule name
	Name string `json:"name"`

	// Category is the classified billing category
	Category rule.Category `json:"category"`

	// Value is the rule's defined value
	Value decimal.Decimal `json:"value"`

	// Percentage marks Value as a percentage
	Percentage bool `json:"percentage"`

	// Impact is the monetary effect, zero for consumed rules
	Impact money.Money `json:"impact"`

	// Address is the resolved scope
	Address types.Scope `json:"address"`

	// Consumed marks a rule skipped because the lift resolves it
	Consumed bool `json:"consumed,omitempty"`
}

// AddressCosts is the per-address cost rollup. It is populated during
// finalization and never mutated after the computation returns.
type AddressCosts struct {
	// Constraints, AdditionalServices, Equipment and Reductions hold
	// the rules attributed to this address, by classified category
	Constraints        []AppliedRuleDetail `json:"constraints,omitempty"`
	AdditionalServices []AppliedRuleDetail `json:"additional_services,omitempty"`
	Equipment          []AppliedRuleDetail `json:"equipment,omitempty"`
	Reductions         []AppliedRuleDetail `json:"reductions,omitempty"`

	// Subtotals per category. Reduction subtotals are magnitudes.
	ConstraintsTotal money.Money `json:"constraints_total"`
	ServicesTotal    money.Money `json:"services_total"`
	EquipmentTotal   money.Money `json:"equipment_total"`
	ReductionsTotal  money.Money `json:"reductions_total"`

	// Total is surcharges plus equipment minus reductions
	Total money.Money `json:"total"`

	// LiftRequired, LiftReason and ConsumedConstraints come from this
	// address's detection result
	LiftRequired        bool     `json:"lift_required"`
	LiftReason          string   `json:"lift_reason,omitempty"`
	ConsumedConstraints []string `json:"consumed_constraints,omitempty"`
}

// ExecutionResult is the immutable output of one price computation.
// It is never persisted by the engine; persistence belongs to the caller.
type ExecutionResult struct {
	// ExecutionID uniquely identifies this computation
	ExecutionID string `json:"execution_id"`

	// BasePrice is the caller-supplied starting price
	BasePrice money.Money `json:"base_price"`

	// FinalPrice is the rounded, floored, clamped result
	FinalPrice money.Money `json:"final_price"`

	// TotalReductions is the magnitude of all reductions
	TotalReductions money.Money `json:"total_reductions"`

	// TotalConstraints and TotalAdditionalServices are category sums
	TotalConstraints        money.Money `json:"total_constraints"`
	TotalAdditionalServices money.Money `json:"total_additional_services"`

	// TotalSurcharges is constraints plus additional services
	TotalSurcharges money.Money `json:"total_surcharges"`

	// AppliedRules is the flat ordered audit trail, consumed rules included
	AppliedRules []AppliedRuleDetail `json:"applied_rules"`

	// Filtered views of AppliedRules by classified category
	Reductions         []AppliedRuleDetail `json:"reductions,omitempty"`
	Constraints        []AppliedRuleDetail `json:"constraints,omitempty"`
	AdditionalServices []AppliedRuleDetail `json:"additional_services,omitempty"`
	Equipment          []AppliedRuleDetail `json:"equipment,omitempty"`
	TemporalRules      []AppliedRuleDetail `json:"temporal_rules,omitempty"`

	// Per-address cost partitions
	PickupCosts   AddressCosts `json:"pickup_costs"`
	DeliveryCosts AddressCosts `json:"delivery_costs"`
	GlobalCosts   AddressCosts `json:"global_costs"`

	// Provenance sets at the context level
	ConsumedConstraints []string `json:"consumed_constraints,omitempty"`
	DeclaredConstraints []string `json:"declared_constraints,omitempty"`
	InferredConstraints []string `json:"inferred_constraints,omitempty"`

	// InferenceMetadata documents the inference, when one was made
	InferenceMetadata *detection.InferenceNote `json:"inference_metadata,omitempty"`

	// Rule counters
	TotalRulesEvaluated int `json:"total_rules_evaluated"`
	TotalRulesApplied   int `json:"total_rules_applied"`

	// Lift requirement at the context level
	LiftRequired bool   `json:"lift_required"`
	LiftReason   string `json:"lift_reason,omitempty"`

	// Minimum-price floor outcome
	MinimumPriceApplied bool        `json:"minimum_price_applied"`
	MinimumPriceAmount  money.Money `json:"minimum_price_amount"`

	// ComputedAt and Duration describe the computation itself
	ComputedAt time.Time     `json:"computed_at"`
	Duration   time.Duration `json:"duration"`
}
