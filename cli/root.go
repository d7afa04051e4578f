package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "amortizer",
		Short:        "Yearly payment and amortization schedules for fixed-rate loans",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		paymentCmd(),
		scheduleCmd(),
		serveCmd(),
		versionCmd(),
	)
	return cmd
}
