// Command roimorph computes physical distance maps and watershed
// segmentations of region-of-interest mask images.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool

	// logger is initialized by the root PersistentPreRun before any
	// subcommand runs.
	logger *log.Logger
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "roimorph",
		Short:         "Distance transforms and watershed segmentation for ROI masks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if flagVerbose {
				level = log.DebugLevel
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "roimorph.yaml", "path to the YAML configuration file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDistanceCommand())
	root.AddCommand(newWatershedCommand())
	root.AddCommand(newConfigCommand())

	return root
}
