package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tj",
	Short: "A trading journal with R-multiple analytics",
	Long: `tj records discretionary trades and turns them into R-multiple analytics.

It provides tools for:
  - Logging, editing and removing trades
  - Statistics: win rate, expectancy, profit factor, drawdown, streaks
  - Breakdowns by strategy, session, weekday, month, symbol and mistake
  - Org-mode and Excel reports, CSV and JSON import/export
  - A JSON HTTP API for the web front end

Storage, server and logging settings come from a YAML or JSON config file,
TJ_* environment variables and an optional .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile   string
	envFile   string
	logLevel  string
	storeType string
	storePath string

	cfg *config.Config
	log zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with TJ_* variables")
	pf.StringVar(&logLevel, "log-level", "", "override logging.level")
	pf.StringVar(&storeType, "store", "", "override storage.type (mem, file, sqlite, redis)")
	pf.StringVar(&storePath, "path", "", "override the file or sqlite path of the store")
}

// loadConfig resolves the effective configuration and logger before any
// subcommand runs. Flags win over the file and the environment.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile, envFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if storeType != "" {
		c.Storage.Type = storeType
	}
	if storePath != "" {
		switch c.Storage.Type {
		case config.StorageSQLite:
			c.Storage.DBPath = storePath
		case config.StorageFile:
			c.Storage.Path = storePath
		default:
			return fmt.Errorf("--path does not apply to %s storage", c.Storage.Type)
		}
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg = c
	log = logging.New(cfg.Logging, cmd.ErrOrStderr())
	return nil
}
