package main

import (
	"fmt"

	"github.com/bobmcallan/gong-mcp/internal/config"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gong-mcp version %s\n", config.GetFullVersion())
		},
	}
}
