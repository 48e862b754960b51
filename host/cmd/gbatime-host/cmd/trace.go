package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"gbatime/core"
	"gbatime/host/link"
	"gbatime/host/logger"
	"gbatime/host/serial"
	"gbatime/trace"
)

func newTraceCommand() *cobra.Command {
	cfg := serial.DefaultConfig("")

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Decode timing events streamed by a board.",
		Long: `Read trace frames from the link-port UART and log every timing event.
Runs until interrupted; dropped and corrupt frames are counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrace(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Device, "device", "", "serial device (e.g. /dev/ttyUSB0)")
	cmd.Flags().IntVar(&cfg.Baud, "baud", serial.DefaultBaud, "UART baud rate")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", 100*time.Millisecond, "serial read timeout")

	return cmd
}

func runTrace(ctx context.Context, cfg *serial.Config) error {
	ctx = logger.WithKV(logger.WithName(ctx, "trace"), "device", cfg.Device)

	device, err := link.ConnectWithConfig(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close() }()

	logger.InfoKV(ctx, "Listening for trace frames", "baud", cfg.Baud)

	err = device.Run(ctx, func(f trace.Frame) error {
		logger.InfoKV(ctx, core.EventName(f.Event.EventType),
			"seq", f.Seq,
			"clock", f.Event.Clock,
			"us", core.TicksToMicros(f.Event.Clock),
			"value", f.Event.Value,
			"aux", f.Event.Aux)
		return nil
	})

	stats := device.Stats()
	logger.InfoKV(ctx, "Trace stopped", "frames", stats.Frames, "dropped", stats.Dropped, "errors", stats.Errors)

	return err
}
