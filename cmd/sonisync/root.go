package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/sonisync/internal/logging"
	"github.com/aretw0/sonisync/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sonisync",
	Short: "Sonisync keeps a chart and its sonification in sync",
	Long: `Sonisync reconciles chart updates with an audio sonification engine.
Replay recorded chart scenarios, or host charts behind an HTTP API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the service configuration file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// loadConfig reads the service configuration and builds the logger it asks for.
func loadConfig(cmd *cobra.Command) (config.Service, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, logging.New(cfg.Level()), nil
}
