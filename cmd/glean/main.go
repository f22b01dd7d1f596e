package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "glean",
		Short:        "Review what you have learned with spaced repetition",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./config.yml or $HOME/.config/glean/config.yml)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCommand.AddCommand(newMigrateCommand())
	rootCommand.AddCommand(newReviewCommand())
	rootCommand.AddCommand(newItemCommand())
	rootCommand.AddCommand(newStatsCommand())
	return rootCommand
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
}
