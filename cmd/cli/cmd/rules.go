// Package cmd - rules command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/S-COULIBALY/express-quote-sub008/adapters/rules"
	"github.com/S-COULIBALY/express-quote-sub008/adapters/store"
)

// rulesCmd groups rule management subcommands
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage rule definitions",
}

// rulesValidateCmd checks a rule file compiles and validates
var rulesValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a rule definitions file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := rules.FromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("OK: %d rules valid\n", set.Len())
		return nil
	},
}

// rulesListCmd prints the rules of a file in priority order
var rulesListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List rules in priority order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := rules.FromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, r := range set.Rules() {
			kind := "fixed"
			if r.Percentage {
				kind = "percent"
			}
			fmt.Printf("%4d  %-28s %-20s %-10s %s\n", r.Priority, r.ID, r.Name, kind, r.Value)
		}
		return nil
	},
}

// rulesImportCmd copies a rule file into a SQLite rule database
var rulesImportCmd = &cobra.Command{
	Use:   "import [file] [database]",
	Short: "Import a rule file into a SQLite rule database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := rules.FromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		db, err := store.Open(args[1])
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Save(cmd.Context(), set.Rules()); err != nil {
			return err
		}
		fmt.Printf("Imported %d rules into %s\n", set.Len(), args[1])
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesImportCmd)
}
