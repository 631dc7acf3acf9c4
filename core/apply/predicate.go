// Package apply - rule applicability evaluation
package apply

import (
	"fmt"

	"github.com/S-COULIBALY/express-quote-sub008/core/detection"
	"github.com/S-COULIBALY/express-quote-sub008/core/enrichment"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

// isApplicable evaluates the rule's structured condition and, when
// present, its compiled CEL expression. Both must hold. A rule with
// neither always applies.
func (a *Applier) isApplicable(set *rule.Set, r *rule.Rule, ec *enrichment.EnrichedContext, activation map[string]any) (bool, error) {
	if r.Condition != nil {
		ok, err := matchCondition(r.Condition, ec)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if prog, ok := set.Program(r.ID); ok {
		out, _, err := prog.Eval(activation)
		if err != nil {
			return false, fmt.Errorf("expression evaluation: %w", err)
		}
		b, ok := out.Value().(bool)
		if !ok {
			// Non-boolean expressions are treated as not matching.
			return false, nil
		}
		return b, nil
	}

	return true, nil
}

// matchCondition evaluates a structured condition against the enriched
// context. The switch is exhaustive over the closed condition kinds.
func matchCondition(c *rule.Condition, ec *enrichment.EnrichedContext) (bool, error) {
	if c.MinVolume > 0 {
		if ec.Quote.Volume == nil || *ec.Quote.Volume < c.MinVolume {
			return false, nil
		}
	}

	switch c.Kind {
	case rule.KindVehicleAccess, rule.KindSecurity:
		return constraintDeclared(c, ec), nil

	case rule.KindBuilding:
		if c.RequiresLift && !ec.LiftRequired {
			return false, nil
		}
		if c.MinFloor > 0 && !floorAtLeast(c, ec) {
			return false, nil
		}
		return true, nil

	case rule.KindDistance:
		return carryBandMatches(c, ec), nil

	case rule.KindEquipment:
		if c.RequiresLift {
			return ec.LiftRequired, nil
		}
		return true, nil

	case rule.KindService:
		return ec.HasService(c.ServiceID), nil

	default:
		return false, fmt.Errorf("unknown condition kind %q", c.Kind)
	}
}

// constraintDeclared checks the constraint identifier against the
// targeted address(es) declared lists
func constraintDeclared(c *rule.Condition, ec *enrichment.EnrichedContext) bool {
	switch c.Side {
	case types.SidePickup:
		return detection.Contains(ec.Pickup.Declared, c.ConstraintID)
	case types.SideDelivery:
		return detection.Contains(ec.Delivery.Declared, c.ConstraintID)
	default:
		return detection.Contains(ec.Declared, c.ConstraintID)
	}
}

// floorAtLeast checks the floor condition against the targeted address(es)
func floorAtLeast(c *rule.Condition, ec *enrichment.EnrichedContext) bool {
	switch c.Side {
	case types.SidePickup:
		return ec.Quote.Pickup.Floor >= c.MinFloor
	case types.SideDelivery:
		return ec.Quote.Delivery.Floor >= c.MinFloor
	default:
		return ec.Quote.Pickup.Floor >= c.MinFloor || ec.Quote.Delivery.Floor >= c.MinFloor
	}
}

// carryBandMatches checks the carry band against the targeted address(es)
func carryBandMatches(c *rule.Condition, ec *enrichment.EnrichedContext) bool {
	switch c.Side {
	case types.SidePickup:
		return ec.Quote.Pickup.CarryDistance == c.Band
	case types.SideDelivery:
		return ec.Quote.Delivery.CarryDistance == c.Band
	default:
		return ec.Quote.Pickup.CarryDistance == c.Band || ec.Quote.Delivery.CarryDistance == c.Band
	}
}

// buildActivation flattens the enriched context into the variable map
// CEL expressions are evaluated against
func buildActivation(ec *enrichment.EnrichedContext) map[string]any {
	volume := 0.0
	if ec.Quote.Volume != nil {
		volume = *ec.Quote.Volume
	}
	return map[string]any{
		"volume":        volume,
		"lift_required": ec.LiftRequired,
		"long_carry":    ec.Pickup.LongCarryRequired || ec.Delivery.LongCarryRequired,
		"services":      notNil(ec.Services),
		"declared":      notNil(ec.Declared),
		"inferred":      notNil(ec.Inferred),
		"consumed":      notNil(ec.Consumed),
		"moving_date":   ec.Quote.MovingDate,
		"pickup":        addressActivation(&ec.Quote.Pickup, ec.Pickup),
		"delivery":      addressActivation(&ec.Quote.Delivery, ec.Delivery),
	}
}

// addressActivation exposes one address to expressions
func addressActivation(addr *types.AddressData, res *detection.Result) map[string]any {
	return map[string]any{
		"floor":          addr.Floor,
		"elevator":       string(addr.Elevator),
		"carry_distance": string(addr.CarryDistance),
		"lift_required":  res.LiftRequired,
		"constraints":    notNil(res.Declared),
	}
}

// notNil keeps nil slices out of the activation
func notNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
