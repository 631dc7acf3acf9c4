// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/S-COULIBALY/express-quote-sub008/core/aggregate"
	"github.com/S-COULIBALY/express-quote-sub008/core/engine"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
	"github.com/S-COULIBALY/express-quote-sub008/internal/config"
)

var (
	basePrice    float64
	outputFormat string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote [request.yaml]",
	Short: "Compute the price for a service request",
	Long: `Evaluate the configured rules against a quote request and print
the final price with its audit trail.

The request file is YAML describing both addresses, declared constraints,
requested services and volume.

Examples:
  express-quote quote request.yaml --rules rules.yaml --base 450
  express-quote quote request.yaml --rules rules.db --base 450 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().Float64VarP(&basePrice, "base", "b", 0, "base price before rule application")
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	quote, err := loadQuoteRequest(args[0])
	if err != nil {
		return err
	}

	set, err := loadRuleSet(ctx)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	cfg := config.Get()
	eng := engine.New(set, engine.Config{
		DefaultCurrency: cfg.Engine.DefaultCurrency,
		FloorThreshold:  cfg.Engine.FloorThreshold,
	})

	result, err := eng.Execute(quote, money.NewFromFloat(basePrice, cfg.Engine.DefaultCurrency))
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

// loadQuoteRequest reads a YAML quote request file
func loadQuoteRequest(path string) (*types.QuoteContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	var quote types.QuoteContext
	if err := yaml.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	return &quote, nil
}

// printResult renders the result as text
func printResult(res *aggregate.ExecutionResult) {
	fmt.Printf("Base price:     %s\n", res.BasePrice)
	fmt.Printf("Final price:    %s\n", res.FinalPrice)
	fmt.Printf("Surcharges:     %s\n", res.TotalSurcharges)
	fmt.Printf("Reductions:     %s\n", res.TotalReductions)
	fmt.Printf("Rules:          %d applied of %d evaluated\n", res.TotalRulesApplied, res.TotalRulesEvaluated)

	if res.LiftRequired {
		fmt.Printf("Furniture lift: required (%s)\n", res.LiftReason)
		if len(res.ConsumedConstraints) > 0 {
			fmt.Printf("Consumed:       %v\n", res.ConsumedConstraints)
		}
	}
	if res.MinimumPriceApplied {
		fmt.Printf("Minimum price:  applied (%s)\n", res.MinimumPriceAmount)
	}

	if len(res.AppliedRules) > 0 {
		fmt.Println("\nApplied rules:")
		for _, d := range res.AppliedRules {
			marker := ""
			if d.Consumed {
				marker = " (consumed by lift)"
			}
			fmt.Printf("  %-32s %-10s %10s%s\n", d.Name, d.Address, d.Impact, marker)
		}
	}
}
