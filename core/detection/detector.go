// Package detection decides, per address, whether a furniture lift or a
// long carry is required and which declared constraints that requirement
// consumes. Consumption is the "bill once" guarantee: every constraint a
// lift physically resolves must be excluded from independent rule
// application, whether the client declared it or not.
package detection

import (
	"fmt"
	"strings"
	"time"

	"github.com/S-COULIBALY/express-quote-sub008/core/types"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// DefaultFloorThreshold is the floor above which stairs alone are no
// longer acceptable and a furniture lift becomes required.
const DefaultFloorThreshold = 5

// Constraint identifiers a furniture lift physically resolves.
const (
	ConstraintDifficultStairs     = "difficult_stairs"
	ConstraintNarrowCorridors     = "narrow_corridors"
	ConstraintBulkyFurniture      = "bulky_furniture"
	ConstraintHeavyItems          = "heavy_items"
	ConstraintIndirectExit        = "indirect_exit"
	ConstraintMultiLevelAccess    = "multi_level_access"
	ConstraintLongCarryDistance   = "long_carry_distance"
	ConstraintElevatorUnavailable = "elevator_unavailable"
	ConstraintElevatorUnsuitable  = "elevator_unsuitable"
	ConstraintElevatorForbidden   = "elevator_forbidden"
)

// SubsumableConstraints is the fixed set of constraint identifiers a
// confirmed furniture lift consumes.
var SubsumableConstraints = []string{
	ConstraintDifficultStairs,
	ConstraintNarrowCorridors,
	ConstraintBulkyFurniture,
	ConstraintHeavyItems,
	ConstraintIndirectExit,
	ConstraintMultiLevelAccess,
	ConstraintLongCarryDistance,
	ConstraintElevatorUnavailable,
	ConstraintElevatorUnsuitable,
	ConstraintElevatorForbidden,
}

// IsSubsumable reports whether a constraint identifier is resolved by a lift
func IsSubsumable(id string) bool {
	for _, s := range SubsumableConstraints {
		if s == id {
			return true
		}
	}
	return false
}

// Options controls detection behavior
type Options struct {
	// AllowInference enables assuming undeclared subsumable constraints
	// once the lift is confirmed required
	AllowInference bool

	// FinalSubmission marks the submission as final; inference is
	// suppressed on drafts and previews
	FinalSubmission bool

	// FloorThreshold overrides DefaultFloorThreshold when positive
	FloorThreshold int
}

// InferenceNote records why and when constraints were inferred
type InferenceNote struct {
	// Reason explains the inference
	Reason string `json:"reason"`

	// Timestamp is when the inference was made
	Timestamp time.Time `json:"timestamp"`

	// InferenceAllowed echoes the option that permitted the inference
	InferenceAllowed bool `json:"inference_allowed"`
}

// Result is the per-address requirement detection output.
// All identifier slices are sorted for deterministic output.
//
// Invariants: Consumed = (Declared ∩ subsumable) ∪ Inferred, and
// Inferred ∩ Declared = ∅.
type Result struct {
	// LiftRequired reports whether a furniture lift is required
	LiftRequired bool `json:"lift_required"`

	// LiftReason explains why the lift is required
	LiftReason string `json:"lift_reason,omitempty"`

	// LongCarryRequired reports whether a long carry surcharge applies
	LongCarryRequired bool `json:"long_carry_required"`

	// CarryReason explains the long carry requirement
	CarryReason string `json:"carry_reason,omitempty"`

	// Declared holds the constraint identifiers submitted by the client
	Declared []string `json:"declared_constraints,omitempty"`

	// Inferred holds subsumable constraints assumed present because the
	// client did not declare them while a lift is required
	Inferred []string `json:"inferred_constraints,omitempty"`

	// Consumed holds every constraint identifier the lift resolves and
	// which must therefore not be billed independently
	Consumed []string `json:"consumed_constraints,omitempty"`

	// Note documents the inference, when one was made
	Note *InferenceNote `json:"inference_note,omitempty"`
}

// HasConsumed reports whether an identifier is in the consumed set
func (r *Result) HasConsumed(id string) bool {
	return Contains(r.Consumed, id)
}

// DetectLiftRequirement evaluates one address against the floor threshold
// and computes the consumed-constraint set. Volume is carried for audit
// context only; the threshold decision is purely floor and elevator based,
// so behavior is symmetric regardless of why the elevator is unusable.
func DetectLiftRequirement(addr *types.AddressData, volume *float64, opts Options) (*Result, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	threshold := opts.FloorThreshold
	if threshold <= 0 {
		threshold = DefaultFloorThreshold
	}

	res := &Result{
		Declared: SortedUnique(addr.Constraints),
	}
	res.LongCarryRequired, res.CarryReason = DetectLongCarryRequirement(addr)

	// A medium or large elevator in working order resolves any floor.
	if (addr.Elevator == types.ElevatorMedium || addr.Elevator == types.ElevatorLarge) && !addr.HasElevatorIssue() {
		return res, nil
	}

	if addr.Floor <= threshold {
		return res, nil
	}

	res.LiftRequired = true
	res.LiftReason = liftReason(addr, threshold)

	consumed := Intersect(res.Declared, SubsumableConstraints)
	if opts.AllowInference && opts.FinalSubmission {
		res.Inferred = Subtract(SubsumableConstraints, res.Declared)
		if len(res.Inferred) > 0 {
			res.Note = &InferenceNote{
				Reason:           fmt.Sprintf("lift required (%s): %d undeclared subsumable constraints assumed present to avoid double billing", res.LiftReason, len(res.Inferred)),
				Timestamp:        time.Now().UTC(),
				InferenceAllowed: true,
			}
		}
	}
	res.Consumed = Union(consumed, res.Inferred)

	return res, nil
}

// DetectLongCarryRequirement reports whether the carry distance alone
// triggers a long carry requirement. This detector consumes nothing.
func DetectLongCarryRequirement(addr *types.AddressData) (bool, string) {
	if addr.CarryDistance == types.CarryLong {
		return true, "long carry distance declared between truck and entrance"
	}
	return false, ""
}

// liftReason composes the cause(s) of the lift requirement
func liftReason(addr *types.AddressData, threshold int) string {
	if addr.Elevator == types.ElevatorNone {
		return fmt.Sprintf("floor %d with no elevator (threshold %d)", addr.Floor, threshold)
	}

	var causes []string
	if addr.Elevator == types.ElevatorSmall {
		causes = append(causes, "small elevator")
	}
	if addr.ElevatorUnavailable {
		causes = append(causes, "elevator unavailable")
	}
	if addr.ElevatorUnsuitable {
		causes = append(causes, "elevator unsuitable for the goods")
	}
	if addr.ElevatorForbidden {
		causes = append(causes, "elevator forbidden for moving")
	}
	return fmt.Sprintf("floor %d with %s (threshold %d)", addr.Floor, strings.Join(causes, ", "), threshold)
}

// Validate checks detection preconditions without running detection.
// Exposed so callers can fail fast before building a full context.
func Validate(addr *types.AddressData) error {
	if addr == nil {
		return errors.Input("address must not be nil")
	}
	return addr.Validate()
}
