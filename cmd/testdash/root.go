package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "testdash",
		Short:         "Testdash runs cargo tests and summarises the libtest JSON stream",
		Args:          cobra.NoArgs,
		RunE:          runTests,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("format", "pretty", "output format (pretty|json)")
	persistent.String("theme", "default", "color theme for pretty output (default|mono)")
	persistent.Int("max-failures", 0, "failing tests to list (0 fits the terminal height)")
	persistent.BoolP("verbose", "v", false, "stream test process stderr in real time")
	persistent.String("log-level", "warn", "diagnostic log level (debug|info|warn|error)")

	cmd.Flags().AddFlagSet(runFlags())

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newParseCmd())

	return cmd
}
