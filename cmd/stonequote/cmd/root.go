// Package cmd provides the stonequote CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/piwi3910/StoneQuote/internal/catalog"
	"github.com/piwi3910/StoneQuote/internal/logging"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool

	appCfg = model.DefaultAppConfig()
)

var rootCmd = &cobra.Command{
	Use:   "stonequote",
	Short: "Quote stone stairs and plan their cuts",
	Long: `stonequote prices stone stair parts (treads, risers, landings),
allocates their edge layers from leftover stone and exports cutting
sheets, remnant labels and spreadsheet quotes.

Examples:
  stonequote serve --addr :8080
  stonequote quote stairs.json --contract villa.json --pdf villa.pdf
  stonequote import prices.xlsx
  stonequote import-dxf landing.dxf --unit mm --stone TRV-60`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stonequote/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file overlaid on the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := project.ApplyEnv(&cfg, envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}
	appCfg = cfg

	logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput}
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return project.DefaultConfigPath()
}

// openCatalog returns the Postgres catalog when a database URL is
// configured, otherwise the local inventory file. The returned close
// function is never nil.
func openCatalog(ctx context.Context) (catalog.Catalog, func(), error) {
	if appCfg.DatabaseURL != "" {
		pg, err := catalog.OpenPostgres(ctx, appCfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logging.Info("using postgres catalog")
		return pg, func() { _ = pg.Close() }, nil
	}

	inv, path, err := project.LoadOrCreateInventory(appCfg.InventoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	logging.Info("using local inventory", zap.String("path", path), zap.Int("stones", len(inv.Stones)))
	return catalog.NewMemory(inv), func() {}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stonequote version %s\n", version)
	},
}
