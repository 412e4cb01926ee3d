// ABOUTME: CLI command for first-run setup.
// ABOUTME: Provisions tables and loads the spreadsheet once, guarded by persisted flags.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/gym/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tables and load the spreadsheet (once)",
	Long: `Run the one-time startup work described by the configuration.

STEPS:

  1. If flags.tables_created is false, create every declared table and set it.
  2. If flags.csv_loaded is false and files.path names an existing file,
     load the spreadsheet and set it.

Flags are written back to the configuration file after each step, so running
init again is a no-op. Writes the sample configuration first when none exists.

Use 'gym provision' or 'gym load' to redo a step explicitly.`,
	Annotations: map[string]string{annotSetup: setupCreate},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint)

		if cfg.Flags.TablesCreated {
			fmt.Println(faint.Sprint("Tables already created, skipping."))
		} else {
			if err := provisionTables(); err != nil {
				return err
			}
			if err := saveFlag(config.FlagTablesCreated); err != nil {
				return err
			}
		}

		switch {
		case cfg.Flags.CSVLoaded:
			fmt.Println(faint.Sprint("Spreadsheet already loaded, skipping."))
		case cfg.Files.Path == "":
			fmt.Println(faint.Sprint("No spreadsheet configured (files.path), skipping load."))
		case !fileExists(cfg.SpreadsheetPath()):
			color.Yellow("! Spreadsheet %s not found, skipping load.", cfg.SpreadsheetPath())
		default:
			if err := loadSpreadsheet(cfg.SpreadsheetPath(), cfg.Files); err != nil {
				return err
			}
			if err := saveFlag(config.FlagCSVLoaded); err != nil {
				return err
			}
		}

		return nil
	},
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func saveFlag(key string) error {
	if err := cfg.SetFlag(key, true); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
