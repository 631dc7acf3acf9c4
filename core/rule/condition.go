// Package rule - structured rule conditions
package rule

import (
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// ConditionKind identifies the shape of a structured condition.
// The set is closed so scope and constraint resolution can switch
// exhaustively instead of probing untyped fields.
type ConditionKind string

const (
	// KindVehicleAccess matches truck access limitations at an address
	KindVehicleAccess ConditionKind = "vehicle_access"

	// KindBuilding matches building characteristics (floor, lift requirement)
	KindBuilding ConditionKind = "building"

	// KindDistance matches carry-distance bands
	KindDistance ConditionKind = "distance"

	// KindSecurity matches declared security constraints
	KindSecurity ConditionKind = "security"

	// KindEquipment matches required equipment
	KindEquipment ConditionKind = "equipment"

	// KindService matches a requested service
	KindService ConditionKind = "service"
)

// Condition is a tagged predicate specification. Kind selects which
// fields are meaningful; unused fields stay at their zero value.
type Condition struct {
	// Kind selects the condition shape
	Kind ConditionKind `json:"kind" yaml:"kind" hcl:"kind"`

	// Side optionally pins the condition to one address
	Side types.AddressSide `json:"side,omitempty" yaml:"side" hcl:"side,optional"`

	// MinFloor applies to building conditions: match when the address
	// floor is at or above this value
	MinFloor int `json:"min_floor,omitempty" yaml:"min_floor" hcl:"min_floor,optional"`

	// RequiresLift applies to building and equipment conditions: match
	// only when a furniture lift is required
	RequiresLift bool `json:"requires_lift,omitempty" yaml:"requires_lift" hcl:"requires_lift,optional"`

	// Band applies to distance conditions
	Band types.CarryBand `json:"band,omitempty" yaml:"band" hcl:"band,optional"`

	// ConstraintID applies to vehicle-access and security conditions:
	// match when the identifier was declared at the targeted address(es)
	ConstraintID string `json:"constraint_id,omitempty" yaml:"constraint_id" hcl:"constraint_id,optional"`

	// ServiceID applies to service conditions: match when the service
	// was requested anywhere
	ServiceID string `json:"service_id,omitempty" yaml:"service_id" hcl:"service_id,optional"`

	// MinVolume optionally gates the condition on declared volume
	MinVolume float64 `json:"min_volume,omitempty" yaml:"min_volume" hcl:"min_volume,optional"`
}

// Validate checks the condition shape
func (c *Condition) Validate() error {
	switch c.Kind {
	case KindVehicleAccess, KindSecurity:
		if c.ConstraintID == "" {
			return errors.Rulef("%s condition requires constraint_id", c.Kind)
		}
	case KindService:
		if c.ServiceID == "" {
			return errors.Rule("service condition requires service_id")
		}
	case KindDistance:
		switch c.Band {
		case types.CarryShort, types.CarryMedium, types.CarryLong:
		default:
			return errors.Rulef("distance condition has unknown band %q", c.Band)
		}
	case KindBuilding, KindEquipment:
	default:
		return errors.Rulef("unknown condition kind %q", c.Kind)
	}
	if c.Side != "" && c.Side != types.SidePickup && c.Side != types.SideDelivery {
		return errors.Rulef("unknown condition side %q", c.Side)
	}
	return nil
}

// AddressSide returns the address the condition is pinned to, if any.
// Used as the last scope-resolution tier.
func (c *Condition) AddressSide() (types.AddressSide, bool) {
	if c.Side == types.SidePickup || c.Side == types.SideDelivery {
		return c.Side, true
	}
	return "", false
}
