// ABOUTME: CLI command for logging a gym session by hand.
// ABOUTME: Inserts through the table declaration, then collapses duplicates.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gym/internal/models"
	"github.com/spf13/cobra"
)

var addDate string

var addCmd = &cobra.Command{
	Use:     "add <duration> <gym> <category>",
	Aliases: []string{"a"},
	Short:   "Log a gym session",
	Long: `Log a gym session. Duration is HH:MM:SS; the date defaults to today.

After the insert, rows equal on files.dedup_columns are collapsed so logging
the same session twice keeps one row. A session rejected by a table constraint
(for example a taken primary key) is reported and nothing is stored.

Examples:
  gym add 1:00:00 Downtown Strength
  gym add 0:45:00 Uptown Cardio --date 2024-12-14
  gym add 1:30:00 "Climbing Gym" Bouldering --date yesterday`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := sessionTable()
		if err != nil {
			return err
		}

		date := time.Now()
		if addDate != "" {
			date, err = parseDate(addDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", addDate)
			}
		}

		s := models.Session{
			Date:     date.Format("2006-01-02"),
			Duration: args[0],
			GymName:  args[1],
			Category: args[2],
		}

		ok, err := db.AddSession(table, s, cfg.Files.DedupColumns)
		if err != nil {
			return fmt.Errorf("failed to add session: %w", err)
		}
		if !ok {
			color.Yellow("! Session on %s at %s was rejected (already recorded)", s.Date, s.GymName)
			return nil
		}

		color.Green("✓ Added %s", s.Category)
		fmt.Printf("  %s %s %s\n",
			color.New(color.Faint).Sprint(s.Date),
			s.GymName, s.Duration)

		return nil
	},
}

// parseDate accepts a calendar date, a timestamp, or today/yesterday.
func parseDate(s string) (time.Time, error) {
	now := time.Now()
	switch s {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "session date (YYYY-MM-DD, today, yesterday)")
	rootCmd.AddCommand(addCmd)
}
