// Package aggregate - the finalization fold
package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/apply"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

// temporalVocabulary marks rule names as date-driven surcharges
var temporalVocabulary = []string{
	"weekend", "week-end", "holiday", "férié", "ferie",
	"night", "nuit", "sunday", "dimanche",
}

// equipmentVocabulary marks rule names as equipment hire
var equipmentVocabulary = []string{"lift", "monte-meuble"}

// Finalize folds an application report into the final execution result.
// The fold happens in one pass over the ordered outcome list; the
// returned record is a snapshot the caller must treat as immutable.
func Finalize(basePrice money.Money, report *apply.Report) *ExecutionResult {
	currency := basePrice.Currency()
	ec := report.Enriched

	res := &ExecutionResult{
		BasePrice:               basePrice,
		TotalReductions:         money.Zero(currency),
		TotalConstraints:        money.Zero(currency),
		TotalAdditionalServices: money.Zero(currency),
		TotalSurcharges:         money.Zero(currency),
		MinimumPriceAmount:      money.Zero(currency),
		TotalRulesEvaluated:     report.Evaluated,
		TotalRulesApplied:       report.Applied,
	}

	res.PickupCosts = newAddressCosts(currency, ec.Pickup.LiftRequired, ec.Pickup.LiftReason, ec.Pickup.Consumed)
	res.DeliveryCosts = newAddressCosts(currency, ec.Delivery.LiftRequired, ec.Delivery.LiftReason, ec.Delivery.Consumed)
	res.GlobalCosts = newAddressCosts(currency, false, "", nil)

	for _, o := range report.Outcomes {
		detail := toDetail(o)
		res.AppliedRules = append(res.AppliedRules, detail)
		if o.Consumed {
			continue
		}
		res.classify(detail)
		res.route(detail)
	}

	res.TotalSurcharges = res.TotalConstraints.Add(res.TotalAdditionalServices)

	candidate := report.RunningPrice
	if report.MinimumPrice != nil {
		res.MinimumPriceAmount = report.MinimumPrice.Impact
		if candidate.LessThan(res.MinimumPriceAmount) {
			candidate = res.MinimumPriceAmount
			res.MinimumPriceApplied = true
		}
	}
	if candidate.IsNegative() {
		candidate = money.Zero(currency)
	}
	res.FinalPrice = candidate.Round()

	res.ConsumedConstraints = ec.Consumed
	res.DeclaredConstraints = ec.Declared
	res.InferredConstraints = ec.Inferred
	res.InferenceMetadata = ec.InferenceNote()
	res.LiftRequired = ec.LiftRequired
	res.LiftReason = ec.LiftReason

	return res
}

// toDetail converts an outcome into its audit-trail entry
func toDetail(o *apply.Outcome) AppliedRuleDetail {
	return AppliedRuleDetail{
		RuleID:     o.Rule.ID,
		Name:       o.Rule.Name,
		Category:   Classify(o.Rule),
		Value:      o.Rule.Value,
		Percentage: o.Rule.Percentage,
		Impact:     o.Impact,
		Address:    o.Scope,
		Consumed:   o.Consumed,
	}
}

// Classify assigns every rule exactly one billing category:
// negative value means reduction, a temporal vocabulary match means
// temporal, then the declared category, then name and value shape.
func Classify(r *rule.Rule) rule.Category {
	if r.Value.IsNegative() {
		return rule.CategoryReduction
	}
	if matchesVocabulary(r.Name, temporalVocabulary) {
		return rule.CategoryTemporal
	}
	switch r.Category {
	case rule.CategoryConstraint, rule.CategoryService, rule.CategoryEquipment,
		rule.CategoryReduction, rule.CategoryTemporal:
		return r.Category
	}
	if matchesVocabulary(r.Name, equipmentVocabulary) {
		return rule.CategoryEquipment
	}
	if r.Percentage {
		return rule.CategoryConstraint
	}
	return rule.CategoryService
}

// classify files the detail into the matching top-level view and totals
func (res *ExecutionResult) classify(d AppliedRuleDetail) {
	switch d.Category {
	case rule.CategoryReduction:
		res.Reductions = append(res.Reductions, d)
		res.TotalReductions = res.TotalReductions.Add(magnitude(d.Impact))
	case rule.CategoryTemporal:
		res.TemporalRules = append(res.TemporalRules, d)
		res.TotalAdditionalServices = res.TotalAdditionalServices.Add(d.Impact)
	case rule.CategoryEquipment:
		res.Equipment = append(res.Equipment, d)
	case rule.CategoryConstraint:
		res.Constraints = append(res.Constraints, d)
		res.TotalConstraints = res.TotalConstraints.Add(d.Impact)
	default:
		res.AdditionalServices = append(res.AdditionalServices, d)
		res.TotalAdditionalServices = res.TotalAdditionalServices.Add(d.Impact)
	}
}

// route files the detail into the per-address partition. A both-scope
// outcome carries a doubled impact, so each address receives one half
// and the partition sums stay exact.
func (res *ExecutionResult) route(d AppliedRuleDetail) {
	switch d.Address {
	case types.ScopePickup:
		res.PickupCosts.add(d)
	case types.ScopeDelivery:
		res.DeliveryCosts.add(d)
	case types.ScopeBoth:
		half := d
		half.Impact = d.Impact.Mul(decimal.NewFromFloat(0.5))
		res.PickupCosts.add(half)
		res.DeliveryCosts.add(half)
	default:
		res.GlobalCosts.add(d)
	}
}

// newAddressCosts creates an empty per-address rollup
func newAddressCosts(currency money.Currency, lift bool, reason string, consumed []string) AddressCosts {
	return AddressCosts{
		ConstraintsTotal:    money.Zero(currency),
		ServicesTotal:       money.Zero(currency),
		EquipmentTotal:      money.Zero(currency),
		ReductionsTotal:     money.Zero(currency),
		Total:               money.Zero(currency),
		LiftRequired:        lift,
		LiftReason:          reason,
		ConsumedConstraints: consumed,
	}
}

// add files one detail into the bucket. Reductions subtract from the
// bucket total; everything else adds.
func (c *AddressCosts) add(d AppliedRuleDetail) {
	switch d.Category {
	case rule.CategoryReduction:
		c.Reductions = append(c.Reductions, d)
		c.ReductionsTotal = c.ReductionsTotal.Add(magnitude(d.Impact))
	case rule.CategoryEquipment:
		c.Equipment = append(c.Equipment, d)
		c.EquipmentTotal = c.EquipmentTotal.Add(d.Impact)
	case rule.CategoryConstraint:
		c.Constraints = append(c.Constraints, d)
		c.ConstraintsTotal = c.ConstraintsTotal.Add(d.Impact)
	default:
		c.AdditionalServices = append(c.AdditionalServices, d)
		c.ServicesTotal = c.ServicesTotal.Add(d.Impact)
	}
	c.Total = c.Total.Add(d.Impact)
}

// magnitude returns the absolute value of an impact
func magnitude(m money.Money) money.Money {
	if m.IsNegative() {
		return m.Neg()
	}
	return m
}

// matchesVocabulary reports whether the lowercased name contains any term
func matchesVocabulary(name string, vocab []string) bool {
	lower := strings.ToLower(name)
	for _, term := range vocab {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
