// Package cmd implements the gasmon command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/internal/logger"
	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/config"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel for the global logger.
	logLevel string
	// cfg is loaded before any subcommand runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "gasmon",
		Short: "Gas monitoring device and host console.",
		Long: `gasmon runs either side of a serial gas monitoring link.

"gasmon device" runs the device itself: it samples a gas sensor once per
second, drives an LED and a buzzer from a threshold comparison combined with
manual overrides, emits one telemetry line per sample and accepts textual
commands (LED_ON, AUTO_OFF, THRESHOLD_<n>, ...) on the same console.

"gasmon monitor" is the host side: it connects to a device over a serial
port (or to a fully simulated one), displays telemetry, keeps a delta-filtered
in-memory history and forwards commands typed on stdin.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			logger.SetLevel(level)

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return nil
		},
	}
)

// Execute runs the gasmon CLI and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error, fatal)")
}
