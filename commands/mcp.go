package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/streamdoc/extval"
	"github.com/c360studio/streamdoc/mcpserver"
)

func (r *root) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP stdio server",
		Long: `Mcp serves the lint_config, fix_config, search_docs and ask_docs
tools over stdio for editor agents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := r.buildIndex(cmd.Context())
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			opts := []mcpserver.Option{
				mcpserver.WithLogger(r.logger),
				mcpserver.WithAsker(r.buildAnswerer(idx)),
			}
			if r.cfg.Validator.Endpoint != "" {
				opts = append(opts, mcpserver.WithExternalValidator(
					extval.NewClient(r.cfg.Validator.Endpoint, r.cfg.Validator.Timeout, r.logger)))
			}

			return mcpserver.New(r.version, idx, opts...).Run()
		},
	}
}
