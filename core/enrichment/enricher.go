// Package enrichment merges declared services and constraints with the
// requirement detection results for both addresses into a single context
// the rule applier evaluates against.
package enrichment

import (
	"github.com/S-COULIBALY/express-quote-sub008/core/detection"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// EnrichedContext is the quote context plus everything detection adds.
//
// The per-address Constraints lists on Quote stay verbatim; rules match
// against identifiers. ConstraintNames is a name-resolved view attached
// for diagnostics only and must never be used for matching.
type EnrichedContext struct {
	// Quote is the original caller-supplied context
	Quote *types.QuoteContext

	// Services is the de-duplicated union of pickup, delivery and
	// global service identifiers
	Services []string

	// Pickup and Delivery hold the per-address detection results
	Pickup   *detection.Result
	Delivery *detection.Result

	// LiftRequired is the OR of both addresses' lift requirements
	LiftRequired bool

	// LiftReason explains the first confirmed lift requirement
	LiftReason string

	// Consumed is the union of both addresses' consumed sets
	Consumed []string

	// Declared is the union of both addresses' declared sets
	Declared []string

	// Inferred is the union of both inferred sets minus anything
	// declared anywhere: an identifier declared at one address and
	// inferred at the other resolves to declared
	Inferred []string

	// ConstraintNames maps constraint identifiers to rule names for
	// diagnostics. Never used for rule matching.
	ConstraintNames map[string]string
}

// Enricher produces enriched contexts
type Enricher struct {
	opts detection.Options
}

// NewEnricher creates an enricher. Inference is always allowed here:
// draft and preview computations that suppress it live upstream.
func NewEnricher(floorThreshold int) *Enricher {
	return &Enricher{
		opts: detection.Options{
			AllowInference:  true,
			FinalSubmission: true,
			FloorThreshold:  floorThreshold,
		},
	}
}

// Enrich validates the context, runs detection for both addresses and
// builds the union-level provenance sets.
func (e *Enricher) Enrich(quote *types.QuoteContext, set *rule.Set) (*EnrichedContext, error) {
	if quote == nil {
		return nil, errors.Input("quote context must not be nil")
	}
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	pickup, err := detection.DetectLiftRequirement(&quote.Pickup, quote.Volume, e.opts)
	if err != nil {
		return nil, errors.Wrap(errors.TypeDetection, "pickup detection", err)
	}
	delivery, err := detection.DetectLiftRequirement(&quote.Delivery, quote.Volume, e.opts)
	if err != nil {
		return nil, errors.Wrap(errors.TypeDetection, "delivery detection", err)
	}

	ec := &EnrichedContext{
		Quote:    quote,
		Services: unifyServices(quote),
		Pickup:   pickup,
		Delivery: delivery,
		Declared: detection.Union(pickup.Declared, delivery.Declared),
		Consumed: detection.Union(pickup.Consumed, delivery.Consumed),
	}

	// Declared wins over inferred at the union level.
	ec.Inferred = detection.Subtract(detection.Union(pickup.Inferred, delivery.Inferred), ec.Declared)

	ec.LiftRequired = pickup.LiftRequired || delivery.LiftRequired
	switch {
	case pickup.LiftRequired:
		ec.LiftReason = "pickup: " + pickup.LiftReason
	case delivery.LiftRequired:
		ec.LiftReason = "delivery: " + delivery.LiftReason
	}

	if set != nil {
		ec.ConstraintNames = resolveNames(ec.Declared, set)
	}

	return ec, nil
}

// HasService reports whether a service was requested anywhere
func (ec *EnrichedContext) HasService(id string) bool {
	return detection.Contains(ec.Services, id)
}

// IsConsumed reports whether a constraint identifier is consumed at
// either address
func (ec *EnrichedContext) IsConsumed(id string) bool {
	return detection.Contains(ec.Consumed, id)
}

// InferenceNote returns the first inference note, pickup side first
func (ec *EnrichedContext) InferenceNote() *detection.InferenceNote {
	if ec.Pickup.Note != nil {
		return ec.Pickup.Note
	}
	return ec.Delivery.Note
}

// unifyServices builds the de-duplicated union of all service declarations
func unifyServices(quote *types.QuoteContext) []string {
	all := make([]string, 0, len(quote.PickupServices)+len(quote.DeliveryServices)+len(quote.GlobalServices))
	all = append(all, quote.PickupServices...)
	all = append(all, quote.DeliveryServices...)
	all = append(all, quote.GlobalServices...)
	return detection.SortedUnique(all)
}

// resolveNames maps declared identifiers to rule names where a rule exists
func resolveNames(ids []string, set *rule.Set) map[string]string {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = set.NameOf(id)
	}
	return names
}
