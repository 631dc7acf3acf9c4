// Package apply - address scope resolution
package apply

import (
	"strings"

	"github.com/S-COULIBALY/express-quote-sub008/core/detection"
	"github.com/S-COULIBALY/express-quote-sub008/core/enrichment"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

// Address-indicating name keywords. Rule names come from operators in
// both English and French.
var (
	pickupKeywords   = []string{"pickup", "departure", "origin", "loading", "départ", "chargement"}
	deliveryKeywords = []string{"delivery", "arrival", "destination", "unloading", "arrivée", "livraison"}
)

// ResolveScope determines which address(es) a rule's monetary effect is
// attributed to. Resolution is a single ordered fallback chain:
//
//  1. keyword inspection of the rule name
//  2. presence of the rule identity in the per-address declared
//     service and constraint lists
//  3. the address tag on the structured condition
//
// falling back to the rule's declared scope, then global. The second
// boolean reports whether the impact must be doubled: the rule's
// identity was found at both addresses, so the cost factor is
// physically present at two distinct locations and billed twice.
func ResolveScope(r *rule.Rule, ec *enrichment.EnrichedContext) (types.Scope, bool) {
	if scope, ok := scopeFromName(r.Name); ok {
		return scope, scope == types.ScopeBoth
	}

	if scope, ok := scopeFromPresence(r.ID, ec); ok {
		return scope, scope == types.ScopeBoth
	}

	if r.Condition != nil {
		if side, ok := r.Condition.AddressSide(); ok {
			if side == types.SideDelivery {
				return types.ScopeDelivery, false
			}
			return types.ScopePickup, false
		}
	}

	switch types.Scope(r.Scope) {
	case types.ScopePickup, types.ScopeDelivery, types.ScopeNone:
		return types.Scope(r.Scope), false
	case types.ScopeBoth:
		return types.ScopeBoth, true
	default:
		return types.ScopeGlobal, false
	}
}

// scopeFromName inspects the rule name for address-indicating terms
func scopeFromName(name string) (types.Scope, bool) {
	lower := strings.ToLower(name)
	pickup := containsAny(lower, pickupKeywords)
	delivery := containsAny(lower, deliveryKeywords)

	switch {
	case pickup && delivery:
		return types.ScopeBoth, true
	case pickup:
		return types.ScopePickup, true
	case delivery:
		return types.ScopeDelivery, true
	default:
		return "", false
	}
}

// scopeFromPresence checks whether the rule identity appears in the
// pickup and/or delivery declared service and constraint lists
func scopeFromPresence(id string, ec *enrichment.EnrichedContext) (types.Scope, bool) {
	atPickup := detection.Contains(ec.Quote.PickupServices, id) ||
		detection.Contains(ec.Pickup.Declared, id)
	atDelivery := detection.Contains(ec.Quote.DeliveryServices, id) ||
		detection.Contains(ec.Delivery.Declared, id)

	switch {
	case atPickup && atDelivery:
		return types.ScopeBoth, true
	case atPickup:
		return types.ScopePickup, true
	case atDelivery:
		return types.ScopeDelivery, true
	default:
		return "", false
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
