// Package rule - compiled rule sets
package rule

import (
	"github.com/google/cel-go/cel"

	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// celCostLimit bounds expression evaluation to keep a malformed rule
// from stalling a computation.
const celCostLimit = 100000

// Set is a validated, priority-ordered, immutable rule collection with
// pre-compiled CEL programs. A Set is safe for concurrent use: nothing
// is mutated after construction and compiled programs are thread-safe.
type Set struct {
	rules    []*Rule
	programs map[string]cel.Program
}

// NewEnv builds the CEL environment rule expressions are compiled in.
// Variables mirror the enriched-context activation built by the applier.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("volume", cel.DoubleType),
		cel.Variable("lift_required", cel.BoolType),
		cel.Variable("long_carry", cel.BoolType),
		cel.Variable("services", cel.ListType(cel.StringType)),
		cel.Variable("declared", cel.ListType(cel.StringType)),
		cel.Variable("inferred", cel.ListType(cel.StringType)),
		cel.Variable("consumed", cel.ListType(cel.StringType)),
		cel.Variable("pickup", cel.DynType),
		cel.Variable("delivery", cel.DynType),
		cel.Variable("moving_date", cel.StringType),
	)
}

// NewSet validates the rules, sorts them by priority and compiles every
// CEL expression once. The returned set owns copies of the slice headers
// but shares the rule values, which are immutable by convention.
func NewSet(rules []*Rule) (*Set, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, errors.Internal("failed to create expression environment", err)
	}
	return NewSetWithEnv(env, rules)
}

// NewSetWithEnv is NewSet with a caller-supplied CEL environment
func NewSetWithEnv(env *cel.Env, rules []*Rule) (*Set, error) {
	s := &Set{
		programs: make(map[string]cel.Program),
	}

	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if r.Expression == "" {
			continue
		}

		ast, issues := env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, errors.Wrapf(errors.TypeRule, issues.Err(), "rule %s: expression does not compile", r.ID)
		}
		prog, err := env.Program(ast, cel.CostLimit(celCostLimit))
		if err != nil {
			return nil, errors.Wrapf(errors.TypeRule, err, "rule %s: program creation failed", r.ID)
		}
		s.programs[r.ID] = prog
	}

	s.rules = SortByPriority(rules)
	return s, nil
}

// Rules returns the priority-ordered rules. Callers must not modify
// the returned slice.
func (s *Set) Rules() []*Rule {
	return s.rules
}

// Len returns the number of rules in the set
func (s *Set) Len() int {
	return len(s.rules)
}

// Program returns the compiled expression program for a rule, if it has one
func (s *Set) Program(ruleID string) (cel.Program, bool) {
	prog, ok := s.programs[ruleID]
	return prog, ok
}

// ByID returns the rule with the given identifier
func (s *Set) ByID(id string) (*Rule, bool) {
	for _, r := range s.rules {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// NameOf resolves a rule identifier to its human-readable name.
// Used only for diagnostics views, never for rule matching.
func (s *Set) NameOf(id string) string {
	if r, ok := s.ByID(id); ok {
		return r.Name
	}
	return id
}
