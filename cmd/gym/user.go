// ABOUTME: CLI commands for the credential check and user provisioning.
// ABOUTME: Passwords come from --password, a terminal prompt, or a line on stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginPassword   string
	userAddPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Check a username and password",
	Long: `Check a username and password against the users table.

Exits non-zero when the credentials do not match. The password is read from
--password, or prompted for on a terminal, or read as one line from stdin.

EXAMPLES:

  gym login alice
  echo "$PASSWORD" | gym login alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(loginPassword)
		if err != nil {
			return err
		}

		ok, err := db.Verify(args[0], password)
		if err != nil {
			return fmt.Errorf("failed to check credentials: %w", err)
		}
		if !ok {
			return fmt.Errorf("invalid username or password")
		}
		color.Green("✓ Welcome, %s", args[0])
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a user",
	Long: `Create a user in the users table.

The password is stored as a SHA-256 digest. Usernames are unique.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(userAddPassword)
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}

		if err := db.CreateUser(args[0], password); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		color.Green("✓ Created user %s", args[0])
		return nil
	},
}

// readPassword returns flag when set, otherwise prompts or reads stdin.
func readPassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	userAddCmd.Flags().StringVarP(&userAddPassword, "password", "p", "", "password (prompted when omitted)")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(userCmd)
}
