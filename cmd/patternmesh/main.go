package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	appName    = "patternmesh"
	appVersion = "0.1.0"
)

var (
	// Global flags
	logLevel string

	// Global logger instance
	logger zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "patternmesh",
		Short: "PatternMesh topic-pattern matching toolkit",
		Long: `patternmesh is a command line harness for the PatternMesh matching engine.
It registers dot-delimited topic patterns (with "*" and "**" wildcards) and
matches topics against them, and ships a benchmark for the matching core.`,
		PersistentPreRunE: initializeLogger,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(newMatchCommand())
	rootCmd.AddCommand(newRouteCommand())
	rootCmd.AddCommand(newBenchCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initializeLogger sets up the global zerolog logger from the --log-level flag
func initializeLogger(cmd *cobra.Command, args []string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", appName, appVersion)
		},
	}
}
