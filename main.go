package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "github.com/Keoroanthony/go-inventory/configs"
	"github.com/Keoroanthony/go-inventory/internal/db"
	"github.com/Keoroanthony/go-inventory/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "inventory serves the customer, item and order API.",
	Long: `inventory is a small shop backend: customer accounts with cookie based
JWT login, an admin managed item catalog, and order placement that never
oversells stock.`,
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		gdb, err := db.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		log.Info("migration_complete", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default: ./application.yml or ./configs/application.yml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
