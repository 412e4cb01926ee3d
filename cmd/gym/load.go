// ABOUTME: CLI command for loading a spreadsheet into the session table.
// ABOUTME: Supports append and upsert modes and overriding the configured file.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gym/internal/config"
	"github.com/spf13/cobra"
)

var (
	loadMode  string
	loadSheet string
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a spreadsheet into the configured table",
	Long: `Load a spreadsheet export (xlsx or csv) into files.table.

Only mapped columns are read; each is renamed to its target column. Rows whose
required column is empty are dropped.

MODES:

  append   Insert every row in one transaction. Any constraint violation
           fails the whole batch.
  upsert   Insert row by row, skipping rows whose primary key already exists.
           Loading the same file twice changes nothing.

EXAMPLES:

  gym load                          # Load files.path with files.mode
  gym load export.csv               # Load another file
  gym load export.xlsx --sheet 2024 # Pick a worksheet
  gym load --mode append            # Override the mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := cfg.Files
		if loadMode != "" {
			files.Mode = config.LoadMode(loadMode)
		}
		if loadSheet != "" {
			files.Sheet = loadSheet
		}

		path := cfg.SpreadsheetPath()
		if len(args) == 1 {
			path = config.ExpandPath(args[0])
		}
		if path == "" {
			return fmt.Errorf("no spreadsheet given and files.path is not set")
		}
		return loadSpreadsheet(path, files)
	},
}

func loadSpreadsheet(path string, files config.FileSpec) error {
	table, err := sessionTable()
	if err != nil {
		return err
	}

	res, err := db.Load(path, files, table)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	color.Green("✓ Loaded %s into %s", path, table.Name)
	faint := color.New(color.Faint)
	fmt.Printf("  %s read %d, dropped %d, inserted %d, skipped %d\n",
		faint.Sprint(res.RunID.String()[:8]),
		res.Read, res.Dropped, res.Inserted, res.Skipped)
	return nil
}

func init() {
	loadCmd.Flags().StringVarP(&loadMode, "mode", "m", "", "load mode: append or upsert (default: files.mode)")
	loadCmd.Flags().StringVar(&loadSheet, "sheet", "", "worksheet name (default: files.sheet or the first sheet)")
	rootCmd.AddCommand(loadCmd)
}
