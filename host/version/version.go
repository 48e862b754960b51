// Package version reports what gbatime-host was built from.
package version

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"gbatime/core"
)

var (
	// Version is set with -ldflags "-X gbatime/host/version.Version=..." by release builds.
	Version = "dev"
	// Commit falls back to the VCS revision recorded by the Go toolchain.
	Commit = ""
)

// revision returns Commit, or the first 12 characters of the embedded VCS revision
func revision() string {
	if Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			if len(setting.Value) > 12 {
				return setting.Value[:12]
			}
			return setting.Value
		}
	}
	return "unknown"
}

// Full describes the build and the clock model it decodes and simulates.
func Full() string {
	return fmt.Sprintf("gbatime-host %s (%s), clock %d Hz, counter %d Hz, overflow default %d",
		Version, revision(), core.TickHz, core.HardwareTickHz, core.DefaultOverflowAmount)
}

// AttachCobraVersionCommand adds a `version` subcommand to root.
func AttachCobraVersionCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long: `Print the gbatime-host version and source revision, along with the
logical tick rate, hardware counter rate and default overflow amount the
trace decoder and simulator assume. A board flashed from a different
revision may use other rates.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}
