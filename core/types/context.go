// Package types - quote context and address input types
package types

import (
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// AddressSide identifies which end of the move an address is
type AddressSide string

const (
	SidePickup   AddressSide = "pickup"
	SideDelivery AddressSide = "delivery"
)

// ElevatorClass describes the elevator available at an address
type ElevatorClass string

const (
	ElevatorNone   ElevatorClass = "none"
	ElevatorSmall  ElevatorClass = "small"
	ElevatorMedium ElevatorClass = "medium"
	ElevatorLarge  ElevatorClass = "large"
)

// CarryBand describes the distance between the truck and the building entrance
type CarryBand string

const (
	CarryUnspecified CarryBand = ""
	CarryShort       CarryBand = "short"
	CarryMedium      CarryBand = "medium"
	CarryLong        CarryBand = "long"
)

// Scope identifies which address a rule's monetary effect is attributed to
type Scope string

const (
	ScopePickup   Scope = "pickup"
	ScopeDelivery Scope = "delivery"
	ScopeBoth     Scope = "both"
	ScopeGlobal   Scope = "global"
	ScopeNone     Scope = "none"
)

// AddressData is the per-address input to requirement detection
type AddressData struct {
	// Floor is the floor number, ground floor is 0
	Floor int `json:"floor" yaml:"floor"`

	// Elevator is the elevator class at this address
	Elevator ElevatorClass `json:"elevator" yaml:"elevator"`

	// ElevatorUnavailable is set when the elevator exists but is out of service
	ElevatorUnavailable bool `json:"elevator_unavailable,omitempty" yaml:"elevator_unavailable"`

	// ElevatorUnsuitable is set when the elevator cannot take the goods
	ElevatorUnsuitable bool `json:"elevator_unsuitable,omitempty" yaml:"elevator_unsuitable"`

	// ElevatorForbidden is set when the building forbids using the elevator for moving
	ElevatorForbidden bool `json:"elevator_forbidden,omitempty" yaml:"elevator_forbidden"`

	// CarryDistance is the declared carry-distance band, if any
	CarryDistance CarryBand `json:"carry_distance,omitempty" yaml:"carry_distance"`

	// Constraints holds the constraint identifiers declared by the client
	Constraints []string `json:"constraints,omitempty" yaml:"constraints"`
}

// Validate checks the address input preconditions
func (a *AddressData) Validate() error {
	if a.Floor < 0 {
		return errors.Inputf("floor must not be negative, got %d", a.Floor)
	}
	switch a.Elevator {
	case ElevatorNone, ElevatorSmall, ElevatorMedium, ElevatorLarge:
	default:
		return errors.Inputf("unknown elevator class %q", a.Elevator)
	}
	switch a.CarryDistance {
	case CarryUnspecified, CarryShort, CarryMedium, CarryLong:
	default:
		return errors.Inputf("unknown carry distance band %q", a.CarryDistance)
	}
	return nil
}

// HasElevatorIssue reports whether any elevator failure flag is set
func (a *AddressData) HasElevatorIssue() bool {
	return a.ElevatorUnavailable || a.ElevatorUnsuitable || a.ElevatorForbidden
}

// QuoteContext is the caller-supplied input to a price computation
type QuoteContext struct {
	// Pickup is the origin address
	Pickup AddressData `json:"pickup" yaml:"pickup"`

	// Delivery is the destination address
	Delivery AddressData `json:"delivery" yaml:"delivery"`

	// Volume is the declared volume in cubic meters, if known
	Volume *float64 `json:"volume,omitempty" yaml:"volume"`

	// MovingDate is the requested date in RFC 3339 date form, if known
	MovingDate string `json:"moving_date,omitempty" yaml:"moving_date"`

	// PickupServices holds service identifiers requested at the origin
	PickupServices []string `json:"pickup_services,omitempty" yaml:"pickup_services"`

	// DeliveryServices holds service identifiers requested at the destination
	DeliveryServices []string `json:"delivery_services,omitempty" yaml:"delivery_services"`

	// GlobalServices holds service identifiers not tied to one address
	GlobalServices []string `json:"global_services,omitempty" yaml:"global_services"`
}

// Validate checks the full quote context
func (q *QuoteContext) Validate() error {
	if err := q.Pickup.Validate(); err != nil {
		return errors.Wrap(errors.TypeInput, "pickup address", err)
	}
	if err := q.Delivery.Validate(); err != nil {
		return errors.Wrap(errors.TypeInput, "delivery address", err)
	}
	if q.Volume != nil && *q.Volume < 0 {
		return errors.Inputf("volume must not be negative, got %v", *q.Volume)
	}
	return nil
}

// Address returns the address for a side
func (q *QuoteContext) Address(side AddressSide) *AddressData {
	if side == SideDelivery {
		return &q.Delivery
	}
	return &q.Pickup
}
