package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gbatime/host/logger"
	"gbatime/host/version"
)

var (
	// logLevel stores the minimum level of log output.
	logLevel string

	// rootCmd is the base command; the work is done by its subcommands.
	rootCmd = &cobra.Command{
		Use:   "gbatime-host",
		Short: "Host tools for the GBA time driver.",
		Long: `Host-side companion of the GBA time driver.

simulate runs the driver and executor against a cycle-stepped model of the
timers and reports wake-up lateness. trace decodes timing events streamed
by a board over the link-port UART.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			logger.SetLevel(level)
			return nil
		},
	}
)

// Execute runs the CLI and exits with non-zero status on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Errorf(ctx, "%v", err)
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSimulateCommand(), newTraceCommand())
	version.AttachCobraVersionCommand(rootCmd)
}
