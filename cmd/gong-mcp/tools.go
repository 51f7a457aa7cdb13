package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/bobmcallan/gong-mcp/internal/tools"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools [name]",
		Short: "List the Gong tools, or show one tool's endpoint and input schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tools.NewGongTable(nil, common.NewSilentLogger())
			if len(args) == 1 {
				return describeTool(cmd, table, args[0])
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMETHOD\tPATH\tDESCRIPTION")
			for _, def := range table.Definitions() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, def.Method, def.Path, def.Description)
			}
			return w.Flush()
		},
	}
}

func describeTool(cmd *cobra.Command, table *tools.Table, name string) error {
	def, ok := table.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", tools.ErrUnknownTool, name)
	}

	schema, err := json.MarshalIndent(def.Tool().InputSchema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render schema for %s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n\n", def.Name, def.Description)
	fmt.Fprintf(out, "Endpoint: %s %s\n", def.Method, def.Path)
	if len(def.Query) > 0 {
		fmt.Fprintf(out, "Query:    %s\n", strings.Join(def.Query, ", "))
	}
	fmt.Fprintf(out, "Body:     %s\n", def.Body)
	fmt.Fprintf(out, "Schema:\n%s\n", schema)
	return nil
}
