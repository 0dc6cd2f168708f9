package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmind/internal/config"
	"github.com/abhisek/quizmind/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizmind",
	Short: "Adaptive AI quiz in your terminal",
	Long:  "Quizmind asks LLM-generated multiple-choice questions and adapts the difficulty to how you answer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which the TUI and every
// store query observe.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/quizmind/config.yaml)")
	pf.String("db", "", "SQLite file or Postgres URL (overrides store.dsn and QUIZMIND_DB)")
	pf.String("driver", "", "Store driver: sqlite or postgres (overrides store.driver)")
	pf.String("user", "", "Player id (overrides user.id)")
	pf.BoolP("verbose", "v", false, "Log to stderr at debug level")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the persistent flags. It
// returns the resolved config file path so the profile can be saved back.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, "", fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}

	if d, _ := cmd.Flags().GetString("driver"); d != "" {
		cfg.Store.Driver = d
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.DSN = db
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.User.ID = u
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Log.Stderr = true
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

// openStore opens the configured store. An empty sqlite DSN selects the
// default database file.
func openStore(cfg config.StoreConfig) (*store.Store, error) {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func resolveDSN(cfg config.StoreConfig) (string, error) {
	if cfg.Driver == store.DriverPostgres {
		return cfg.DSN, nil
	}
	if cfg.DSN != "" {
		return cfg.DSN, store.EnsureDir(cfg.DSN)
	}
	return store.DefaultDBPath()
}
