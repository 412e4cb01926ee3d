// ABOUTME: CLI command for creating the declared tables.
// ABOUTME: Idempotent; reports dropped autoincrement flags as warnings.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create every declared table that does not exist",
	Long: `Create the tables declared in the configuration.

Existing tables are left as they are. AUTOINCREMENT is only kept when the
flagged column is the sole primary key; otherwise it is dropped and a warning
is printed.

This ignores flags.tables_created; see 'gym init' for the guarded version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return provisionTables()
	},
}

func provisionTables() error {
	warnings, err := db.EnsureTables(cfg.Tables)
	for _, w := range warnings {
		color.Yellow("! %s", w)
	}
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	color.Green("✓ Tables ready (%d)", len(cfg.Tables))
	return nil
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}
