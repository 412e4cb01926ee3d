// ABOUTME: CLI command for listing gym sessions.
// ABOUTME: Supports filtering by date and limiting results.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/gym/internal/models"
	"github.com/spf13/cobra"
)

var (
	listDate  string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List gym sessions",
	Long: `List logged gym sessions, most recent first.

OUTPUT FORMAT:

  Each line shows: DATE  CATEGORY  GYM  DURATION

EXAMPLES:

  gym list                       # Show last 20 sessions
  gym list -n 50                 # Show last 50 sessions
  gym list -n 0                  # Show everything
  gym list --date 2024-12-14     # Sessions on one day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := sessionTable()
		if err != nil {
			return err
		}

		var sessions []models.Session
		if listDate != "" {
			sessions, err = db.SessionsOn(table.Name, listDate)
		} else {
			sessions, err = db.ListSessions(table.Name, listLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(padRight(s.Date, 10)),
				padRight(truncate(s.Category, 16), 16),
				padRight(truncate(s.GymName, 24), 24),
				s.Duration)
		}

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "only sessions on this date (YYYY-MM-DD)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results (0 for all)")
	rootCmd.AddCommand(listCmd)
}
