// Package apply iterates rules in priority order against an enriched
// context, skipping consumed constraints and accumulating applied-rule
// outcomes against a running price.
package apply

import (
	"go.uber.org/zap"

	"github.com/S-COULIBALY/express-quote-sub008/core/enrichment"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

// SkipReason explains why a rule produced no monetary effect
type SkipReason string

const (
	// SkipConsumed means the rule's constraint is resolved by the lift
	SkipConsumed SkipReason = "consumed"

	// SkipNotApplicable means the rule's predicate did not match
	SkipNotApplicable SkipReason = "not_applicable"

	// SkipError means the rule's evaluation failed and was recovered
	SkipError SkipReason = "error"
)

// Outcome is one applied rule with its resolved scope and impact.
// Consumed outcomes carry a zero impact and exist for the audit trail.
type Outcome struct {
	// Rule is the applied rule
	Rule *rule.Rule

	// Scope is the resolved address scope
	Scope types.Scope

	// Impact is the monetary delta, already doubled for both-scope rules
	Impact money.Money

	// Doubled reports whether the impact was billed at both addresses
	Doubled bool

	// Consumed marks a rule that was skipped because the lift resolves it
	Consumed bool
}

// Skipped records a rule that did not apply, for the audit trail
type Skipped struct {
	RuleID string     `json:"rule_id"`
	Name   string     `json:"name"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Report is the ordered result of one application pass
type Report struct {
	// Outcomes holds applied and consumed rules in application order
	Outcomes []*Outcome

	// MinimumPrice is the minimum-price floor rule outcome, recorded
	// out of band and never folded into the running price
	MinimumPrice *Outcome

	// RunningPrice is the base price plus all non-floor impacts
	RunningPrice money.Money

	// Skipped lists rules that produced no effect
	Skipped []Skipped

	// Evaluated and Applied count rules seen and rules with effect
	Evaluated int
	Applied   int

	// Enriched is the context the pass ran against
	Enriched *enrichment.EnrichedContext
}

// Applier applies rule sets to enriched contexts
type Applier struct {
	log *zap.Logger
}

// NewApplier creates an applier
func NewApplier() *Applier {
	return &Applier{log: logging.Named("applier")}
}

// Apply runs every rule of the set, in ascending priority order, against
// the enriched context. A failure inside a single rule is recovered and
// logged; one malformed rule never aborts the computation.
func (a *Applier) Apply(set *rule.Set, ec *enrichment.EnrichedContext, basePrice money.Money) *Report {
	report := &Report{
		RunningPrice: basePrice,
		Enriched:     ec,
	}

	activation := buildActivation(ec)

	for _, r := range set.Rules() {
		report.Evaluated++
		a.applyOne(set, r, ec, activation, report)
	}

	return report
}

// applyOne evaluates a single rule with panic recovery
func (a *Applier) applyOne(set *rule.Set, r *rule.Rule, ec *enrichment.EnrichedContext, activation map[string]any, report *Report) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Warn("rule evaluation panicked, rule skipped",
				zap.String("rule_id", r.ID),
				zap.Any("panic", rec))
			report.Skipped = append(report.Skipped, Skipped{
				RuleID: r.ID, Name: r.Name, Reason: SkipError,
			})
		}
	}()

	// Consumed skip test. The lift fee itself is exempt: consuming the
	// fee that justifies the consumption would bill the lift for free.
	if ec.LiftRequired && ec.IsConsumed(r.ID) && !r.IsLiftFee() {
		a.log.Debug("rule consumed by lift requirement", zap.String("rule_id", r.ID))
		report.Outcomes = append(report.Outcomes, &Outcome{
			Rule:     r,
			Scope:    consumedScope(r, ec),
			Impact:   money.Zero(report.RunningPrice.Currency()),
			Consumed: true,
		})
		report.Skipped = append(report.Skipped, Skipped{
			RuleID: r.ID, Name: r.Name, Reason: SkipConsumed,
		})
		return
	}

	applicable, err := a.isApplicable(set, r, ec, activation)
	if err != nil {
		a.log.Warn("rule evaluation failed, rule skipped",
			zap.String("rule_id", r.ID), zap.Error(err))
		report.Skipped = append(report.Skipped, Skipped{
			RuleID: r.ID, Name: r.Name, Reason: SkipError, Detail: err.Error(),
		})
		return
	}
	if !applicable {
		report.Skipped = append(report.Skipped, Skipped{
			RuleID: r.ID, Name: r.Name, Reason: SkipNotApplicable,
		})
		return
	}

	scope, doubled := ResolveScope(r, ec)

	// A minimum-price rule constrains the final price from below; it is
	// recorded separately and not folded into the running price.
	if r.IsMinimumPrice() {
		report.MinimumPrice = &Outcome{
			Rule:   r,
			Scope:  types.ScopeGlobal,
			Impact: money.New(r.Value, report.RunningPrice.Currency()),
		}
		report.Applied++
		return
	}

	impact := computeImpact(r, report.RunningPrice, doubled)

	report.Outcomes = append(report.Outcomes, &Outcome{
		Rule:    r,
		Scope:   scope,
		Impact:  impact,
		Doubled: doubled,
	})
	report.RunningPrice = report.RunningPrice.Add(impact)
	report.Applied++

	a.log.Debug("rule applied",
		zap.String("rule_id", r.ID),
		zap.String("scope", string(scope)),
		zap.String("impact", impact.String()))
}

// computeImpact derives the monetary delta of a rule at the current
// running price. Percentage rules act multiplicatively on the running
// price at time of application; fixed rules add a constant. Reductions
// always subtract, whichever way the definition spelled the sign.
func computeImpact(r *rule.Rule, running money.Money, doubled bool) money.Money {
	var impact money.Money
	if r.Percentage {
		impact = running.ApplyPercent(r.Value)
	} else {
		impact = money.New(r.Value, running.Currency()).Round()
	}

	if r.Category == rule.CategoryReduction && !impact.IsNegative() {
		impact = impact.Neg()
	}

	// The constraint exists at two distinct locations and is billed twice.
	if doubled {
		impact = impact.Add(impact)
	}
	return impact
}

// consumedScope resolves the scope a consumed rule would have applied
// to, so the audit trail still attributes it
func consumedScope(r *rule.Rule, ec *enrichment.EnrichedContext) types.Scope {
	scope, _ := ResolveScope(r, ec)
	return scope
}
