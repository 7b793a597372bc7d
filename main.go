package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Eursukkul/venue-booking/config"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "venue-booking"

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
	cfg        *config.Config
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

func commonRun() *slog.Logger {
	level := slog.LevelInfo
	if globalFlags.debug || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
	}))
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		logger.Warn("failed to set GOMAXPROCS", "component", programName, "error", err)
	}
	return logger
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Venue booking requests with admin approval",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to YAML config file")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(seedCommand())
	rootCmd.AddCommand(tokenCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
