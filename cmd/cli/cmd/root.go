// Package cmd provides the CLI commands for express-quote.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/S-COULIBALY/express-quote-sub008/adapters/rules"
	"github.com/S-COULIBALY/express-quote-sub008/adapters/store"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/internal/config"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

var (
	cfgFile   string
	rulesFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "express-quote",
	Short: "Compute prices for moving and cleaning service requests",
	Long: `express-quote evaluates an ordered set of business rules against a
service request (addresses, constraints, services, volume) and produces
a final price with a full audit trail.

Examples:
  express-quote quote request.yaml --rules rules.yaml --base 450
  express-quote rules validate rules.hcl
  express-quote rules list rules.yaml`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.express-quote.json)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rule definitions file (yaml, hcl) or sqlite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadRuleSet resolves the rule source from the --rules flag or config
func loadRuleSet(ctx context.Context) (*rule.Set, error) {
	path := rulesFile
	driver := "file"
	if path == "" {
		cfg := config.Get()
		path = cfg.Rules.Path
		driver = cfg.Rules.Driver
	}

	if driver == "sqlite" || hasExt(path, ".db", ".sqlite", ".sqlite3") {
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		loaded, err := db.Load(ctx)
		if err != nil {
			return nil, err
		}
		return rule.NewSet(loaded)
	}

	return rules.FromFile(ctx, path)
}

func hasExt(path string, exts ...string) bool {
	for _, ext := range exts {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("express-quote version 0.1.0")
	},
}
