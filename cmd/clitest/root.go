package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "clitest",
		Short:         "clitest runs a command-line program under test and reports its result",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(newRunCmd(opts))

	return cmd
}

func newLogger(cmd *cobra.Command, levelStr string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %s", levelStr)
	}

	writer := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}
