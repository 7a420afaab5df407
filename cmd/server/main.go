package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agenthands/jai/internal/config"
	"github.com/agenthands/jai/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "jai",
	Short: "Personal journal API with AI summaries",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().String("addr", "", "listen address, overrides server.addr")
	rootCmd.PersistentFlags().String("driver", "", "store driver (memory, postgres, sqlite, memgraph)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name for SQL drivers")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	for _, name := range []string{"config", "addr", "driver", "dsn", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("jai")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// loadConfig layers defaults, the TOML file, plain env overrides and finally
// JAI_* env or flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetString("driver"); v != "" {
		cfg.Store.Driver = v
	}
	if v := viper.GetString("dsn"); v != "" {
		cfg.Store.DSN = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level).With("service", "jai")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
