// Package engine provides the API-primary quote computation engine.
// CLI and HTTP surfaces are thin wrappers around this engine.
package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/S-COULIBALY/express-quote-sub008/core/aggregate"
	"github.com/S-COULIBALY/express-quote-sub008/core/apply"
	"github.com/S-COULIBALY/express-quote-sub008/core/enrichment"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

// Config configures the engine
type Config struct {
	// DefaultCurrency is the computation currency
	DefaultCurrency money.Currency

	// FloorThreshold overrides the lift floor threshold when positive
	FloorThreshold int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: money.CurrencyEUR,
	}
}

// Engine computes quote prices. An Engine is a pure synchronous call
// chain over immutable inputs: the rule set is shared read-only, every
// computation allocates its own context and result, so one Engine may
// serve concurrent computations without coordination.
type Engine struct {
	set      *rule.Set
	enricher *enrichment.Enricher
	applier  *apply.Applier
	config   Config
	log      *zap.Logger
}

// New creates an engine over a compiled rule set
func New(set *rule.Set, config Config) *Engine {
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = money.CurrencyEUR
	}
	return &Engine{
		set:      set,
		enricher: enrichment.NewEnricher(config.FloorThreshold),
		applier:  apply.NewApplier(),
		config:   config,
		log:      logging.Named("engine"),
	}
}

// RuleSet returns the engine's rule set
func (e *Engine) RuleSet() *rule.Set {
	return e.set
}

// Execute computes the final price for a quote context: enrich the
// context, apply the rules in priority order, finalize the result.
// Invalid input is rejected before any computation proceeds; a caller
// never receives a partial result.
func (e *Engine) Execute(quote *types.QuoteContext, basePrice money.Money) (*aggregate.ExecutionResult, error) {
	start := time.Now()

	if quote == nil {
		return nil, errors.Input("quote context must not be nil")
	}
	if basePrice.IsNegative() {
		return nil, errors.Inputf("base price must not be negative, got %s", basePrice)
	}

	enriched, err := e.enricher.Enrich(quote, e.set)
	if err != nil {
		return nil, err
	}

	report := e.applier.Apply(e.set, enriched, basePrice)
	result := aggregate.Finalize(basePrice, report)

	result.ExecutionID = uuid.NewString()
	result.ComputedAt = start.UTC()
	result.Duration = time.Since(start)

	e.log.Info("quote computed",
		zap.String("execution_id", result.ExecutionID),
		zap.String("base_price", basePrice.String()),
		zap.String("final_price", result.FinalPrice.String()),
		zap.Int("rules_evaluated", result.TotalRulesEvaluated),
		zap.Int("rules_applied", result.TotalRulesApplied),
		zap.Bool("lift_required", result.LiftRequired))

	return result, nil
}
