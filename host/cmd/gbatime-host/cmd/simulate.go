package cmd

import (
	"github.com/spf13/cobra"

	"gbatime/host/config"
	"gbatime/host/simulate"
)

func newSimulateCommand() *cobra.Command {
	opts := &simulate.Options{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario on the simulated timers.",
		Long: `Run the time driver and executor on a cycle-stepped model of the GBA
timers. Each task in the scenario sleeps for its period and records how
late every wake-up was; the report is logged at the end of the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return simulate.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ScenarioPath, "scenario", "s", config.DefaultScenarioFilename, "path to scenario file")
	cmd.Flags().DurationVarP(&opts.Duration, "duration", "d", 0, "override the simulated run time")

	return cmd
}
