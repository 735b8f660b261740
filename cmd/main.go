package main

import (
	"fmt"
	"os"

	"cast-receiver/internal/config"
	"cast-receiver/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cast-receiver",
	Short: "Cast receiver host helper - device classification and server credentials",
	Long: `A small helper for Cast-style media receivers. It classifies the
receiver hardware into a device class by probing codec support, keeps the
credentials of configured media servers in memory, and serves the current
device class over a local HTTP and WebSocket API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime loads configuration and builds the logger for a subcommand
func loadRuntime() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := logging.Initialize(cfg.LogLevel)
	if err := logging.SetupFileLogging(logger, cfg.LogFile); err != nil {
		return nil, nil, fmt.Errorf("failed to set up file logging: %w", err)
	}

	return cfg, logger, nil
}
