// ABOUTME: CLI command for session statistics.
// ABOUTME: Prints counts by category, gym and month, average duration, and visit rates.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gym/internal/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	Long: `Show descriptive statistics over the session table.

SECTIONS:

  Overview          total sessions, first-to-last span, average duration
  Rates             sessions per week, month and year over the logged span
  By category       session count per category, busiest first
  By gym            session count per gym, busiest first
  By month          session count per YYYY-MM, busiest months marked
  Weekly frequency  how many weeks had N sessions`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := sessionTable()
		if err != nil {
			return err
		}
		name := table.Name

		span, err := db.Span(name, time.Now())
		if err != nil {
			return fmt.Errorf("failed to compute span: %w", err)
		}
		if span.Sessions == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)

		bold.Println("Overview")
		fmt.Printf("  %s %d\n", padRight("sessions", 18), span.Sessions)
		fmt.Printf("  %s %.0f days (%.0f since first)\n", padRight("logged span", 18), span.LoggedDays, span.TotalDays)
		avg, ok, err := db.AverageDuration(name)
		if err != nil {
			return fmt.Errorf("failed to average durations: %w", err)
		}
		if ok {
			fmt.Printf("  %s %s\n", padRight("average duration", 18), avg)
		}

		bold.Println("\nRates")
		printRate("per week", span.PerWeek, span.TotalWeeks, "weeks")
		printRate("per month", span.PerMonth, span.TotalMonths, "months")
		printRate("per year", span.PerYear, span.TotalYears, "years")

		byCategory, err := db.SessionsByCategory(name)
		if err != nil {
			return fmt.Errorf("failed to count by category: %w", err)
		}
		bold.Println("\nBy category")
		printCounts(byCategory, nil)

		byGym, err := db.SessionsByGym(name)
		if err != nil {
			return fmt.Errorf("failed to count by gym: %w", err)
		}
		bold.Println("\nBy gym")
		printCounts(byGym, nil)

		byMonth, err := db.SessionsByMonth(name)
		if err != nil {
			return fmt.Errorf("failed to count by month: %w", err)
		}
		busiest, err := db.BusiestMonths(name)
		if err != nil {
			return fmt.Errorf("failed to find busiest months: %w", err)
		}
		marks := make(map[string]bool, len(busiest))
		for _, m := range busiest {
			marks[m.Label] = true
		}
		bold.Println("\nBy month")
		printCounts(byMonth, marks)

		freq, err := db.WeeklyFrequency(name)
		if err != nil {
			return fmt.Errorf("failed to compute weekly frequency: %w", err)
		}
		bold.Println("\nWeekly frequency")
		for _, f := range freq {
			fmt.Printf("  %s %s\n", padRight(fmt.Sprintf("%d session(s)", f.Sessions), 18),
				faint.Sprintf("%d week(s)", f.Weeks))
		}

		return nil
	},
}

func printRate(label string, r *float64, over float64, unit string) {
	if r == nil {
		fmt.Printf("  %s %s\n", padRight(label, 18), color.New(color.Faint).Sprint("n/a"))
		return
	}
	fmt.Printf("  %s %.2f %s\n", padRight(label, 18), *r,
		color.New(color.Faint).Sprintf("(over %.0f %s)", over, unit))
}

func printCounts(rows []models.CountRow, marks map[string]bool) {
	for _, r := range rows {
		label := r.Label
		if label == "" {
			label = "(none)"
		}
		line := fmt.Sprintf("  %s %d", padRight(truncate(label, 24), 24), r.Count)
		if marks[r.Label] {
			color.Green("%s  busiest", line)
			continue
		}
		fmt.Println(line)
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
