// ABOUTME: CLI commands for the configuration file.
// ABOUTME: Writes the sample document and shows the resolved settings.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/gym/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the sample configuration",
	Long: `Write the bundled sample configuration to the config path.

The sample declares a users table and a gym_sessions table mapped from the
Date, Duration, Gym, and Category columns of gym.xlsx next to the config file.
An existing file is never overwritten.`,
	Annotations: map[string]string{annotSetup: setupNone},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.Green("✓ Wrote %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the resolved configuration",
	Annotations: map[string]string{annotSetup: setupNoStore},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint)

		fmt.Printf("%s %s\n", padRight("config", 14), cfg.Path())
		fmt.Printf("%s %s\n", padRight("database", 14), cfg.DatabasePath())
		fmt.Printf("%s %s\n", padRight("spreadsheet", 14), cfg.SpreadsheetPath())
		fmt.Printf("%s %s into %s, required column %s\n", padRight("load", 14),
			cfg.Files.Mode, cfg.Files.Table, cfg.Files.RequiredColumn)
		fmt.Printf("%s tables_created=%v csv_loaded=%v\n", padRight("flags", 14),
			cfg.Flags.TablesCreated, cfg.Flags.CSVLoaded)

		for _, t := range cfg.Tables {
			fmt.Printf("\n%s\n", color.New(color.Bold).Sprint(t.Name))
			for _, col := range t.Columns {
				var attrs []string
				if col.Flags.Has(config.PrimaryKey) {
					attrs = append(attrs, "pk")
				}
				if col.Flags.Has(config.Autoincrement) {
					attrs = append(attrs, "autoincrement")
				}
				if col.Flags.Has(config.NotNull) {
					attrs = append(attrs, "not null")
				}
				if col.Flags.Has(config.Unique) {
					attrs = append(attrs, "unique")
				}
				source := ""
				if col.Source != "" {
					source = faint.Sprintf(" <- %s", col.Source)
				}
				fmt.Printf("  %s %s %s%s\n", padRight(col.Name, 16), padRight(col.Type, 8),
					strings.Join(attrs, ", "), source)
			}
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
