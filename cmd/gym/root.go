// ABOUTME: Root Cobra command for gym CLI.
// ABOUTME: Loads configuration and opens the store via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/logger"
	"github.com/harperreed/gym/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command annotations controlling setup.
const (
	annotSetup   = "setup"
	setupNone    = "none"   // no config, no store
	setupCreate  = "create" // write the default config when missing
	setupNoStore = "config" // config only
)

var (
	cfg *config.Config
	db  *storage.DB
)

var rootCmd = &cobra.Command{
	Use:   "gym",
	Short: "Personal gym session log",
	Long: `Gym keeps a log of gym sessions in a local SQLite file.

Sessions come from a spreadsheet export (xlsx or csv) or are entered by hand.
Tables, the spreadsheet column mapping, and the load mode are declared in a
YAML configuration file.

QUICK START:

  $ gym config init                          # Write the sample configuration
  $ gym init                                 # Create tables and load the spreadsheet once
  $ gym add 1:00:00 Downtown Strength        # Log a session for today
  $ gym list                                 # See recent sessions
  $ gym stats                                # Counts, averages, and rates

LOADING:

  $ gym load                                 # Load files.path again
  $ gym load export.csv --mode append        # Load another file in append mode
  $ gym dedup                                # Collapse duplicate rows

MCP INTEGRATION:

  Run 'gym mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "gym": { "command": "gym", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  The config file defaults to ~/.config/gym/gym.yml and the database to
  ~/.local/share/gym/gym.db. Override with --config and --db, or with
  GYM_CONFIG and GYM_DB (a .env file in the working directory is read).`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = teardown(rootCmd, nil) }()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default is $XDG_CONFIG_HOME/gym/gym.yml)")
	rootCmd.PersistentFlags().String("db", "", "database file (overrides the config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load(".env.local")
	}

	viper.SetEnvPrefix("GYM")
	viper.AutomaticEnv()
}

func configPath() string {
	if p := viper.GetString("config"); p != "" {
		return config.ExpandPath(p)
	}
	return config.DefaultPath()
}

func setup(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(viper.GetBool("verbose"))

	mode := cmd.Annotations[annotSetup]
	if mode == setupNone || cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	path := configPath()
	if mode == setupCreate {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}
			logger.Infof("wrote default configuration to %s", path)
		}
	}

	var err error
	cfg, err = config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no configuration at %s (run 'gym config init')", path)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if mode == setupNoStore {
		return nil
	}

	dbPath := cfg.DatabasePath()
	if p := viper.GetString("db"); p != "" {
		dbPath = config.ExpandPath(p)
	}
	db, err = storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debugf("using config %s and database %s", path, dbPath)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// sessionTable returns the declaration of the table sessions live in.
func sessionTable() (config.TableSpec, error) {
	t, err := cfg.IngestTable()
	if err != nil {
		return config.TableSpec{}, fmt.Errorf("%w: %v", storage.ErrConfig, err)
	}
	return t, nil
}
