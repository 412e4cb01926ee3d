// ABOUTME: CLI command for removing duplicate rows.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dedupTable string

var dedupCmd = &cobra.Command{
	Use:   "dedup [column...]",
	Short: "Remove duplicate rows, keeping the earliest",
	Long: `Delete rows that repeat an earlier row on the given columns.

Without columns, files.dedup_columns is used (every column but the
autoincrement one, unless configured). The earliest inserted row of each
group survives.

EXAMPLES:

  gym dedup                       # Business-key dedup of files.table
  gym dedup date gym_name         # One session per gym per day
  gym dedup --table users username`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := dedupTable
		if table == "" {
			table = cfg.Files.Table
		}
		subset := args
		if len(subset) == 0 {
			subset = cfg.Files.DedupColumns
		}

		n, err := db.Dedup(table, subset)
		if err != nil {
			return fmt.Errorf("failed to dedup %s: %w", table, err)
		}
		if n == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}
		color.Yellow("✗ Removed %d duplicate row(s) from %s", n, table)
		return nil
	},
}

func init() {
	dedupCmd.Flags().StringVarP(&dedupTable, "table", "t", "", "table to dedup (default: files.table)")
	rootCmd.AddCommand(dedupCmd)
}
