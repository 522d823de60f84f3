package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// appVersion is stamped into release builds via -ldflags.
var appVersion = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shotsort version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shotsort %s\n", appVersion)
		},
	}
}
