package main

import (
	"os"
	"path/filepath"

	"github.com/bobmcallan/gong-mcp/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gong-mcp",
		Short:         "MCP server for the Gong API",
		Long:          "gong-mcp exposes the Gong REST API as Model Context Protocol tools over stdio or streamable HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.LoadVersionFromFile()
		},
	}
	cmd.PersistentFlags().StringArrayVarP(&opts.configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig resolves the config files (auto-discovering one when none was
// given) and applies flag overrides.
func (o *rootOptions) loadConfig(port int, host string) (*config.Config, []string, error) {
	files := o.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = []string{path}
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, nil, err
	}
	config.ApplyFlagOverrides(cfg, port, host)
	return cfg, files, nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"gong-mcp.toml",
		filepath.Join("config", "gong-mcp.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "gong-mcp.toml"),
		filepath.Join(binDir, "config", "gong-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
