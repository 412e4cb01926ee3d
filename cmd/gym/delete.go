// ABOUTME: CLI command for deleting gym sessions.
// ABOUTME: Removes every session logged on a date.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteDate string

var deleteCmd = &cobra.Command{
	Use:     "delete --date <YYYY-MM-DD>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete the sessions on a date",
	Long: `Delete every session logged on the given date.

Use 'gym list --date' first to see what will go.

EXAMPLES:

  gym delete --date 2024-12-14

CAUTION:

  This permanently deletes the sessions. There is no undo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := sessionTable()
		if err != nil {
			return err
		}

		d, err := parseDate(deleteDate)
		if err != nil {
			return fmt.Errorf("invalid date: %s", deleteDate)
		}
		date := d.Format("2006-01-02")

		sessions, err := db.SessionsOn(table.Name, date)
		if err != nil {
			return fmt.Errorf("failed to find sessions: %w", err)
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no sessions on %s", date)
		}

		n, err := db.DeleteSessionsByDate(table.Name, date)
		if err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}

		color.Yellow("✗ Deleted %d session(s) on %s", n, date)
		faint := color.New(color.Faint)
		for _, s := range sessions {
			fmt.Printf("  %s %s %s\n", faint.Sprint(s.Category), s.GymName, s.Duration)
		}

		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteDate, "date", "", "date whose sessions are deleted (YYYY-MM-DD)")
	_ = deleteCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(deleteCmd)
}
