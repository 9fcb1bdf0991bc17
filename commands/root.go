// Package commands provides the streamdoc command-line interface.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/streamdoc/config"
)

// root carries state shared by every subcommand: the resolved
// configuration and the process-wide logger.
type root struct {
	version    string
	configPath string
	logLevel   string

	logger *slog.Logger
	cfg    *config.Config
}

// Root builds the streamdoc command tree.
func Root(version string) *cobra.Command {
	r := &root{version: version}

	cmd := &cobra.Command{
		Use:   "streamdoc",
		Short: "Documentation assistant for stream pipeline configurations",
		Long: `Streamdoc answers questions about stream pipeline configuration,
lints configs for structural mistakes and misspelled component names,
and rewrites the high-confidence mistakes automatically.

Answers are grounded in locally indexed markdown documentation and can
be served over HTTP, over MCP stdio, or used directly from this CLI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&r.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		r.serveCmd(),
		r.mcpCmd(),
		r.lintCmd(),
		r.fixCmd(),
		r.askCmd(),
		r.indexCmd(),
		r.versionCmd(),
	)
	return cmd
}

func (r *root) setup() error {
	level := slog.LevelInfo
	switch strings.ToLower(r.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	r.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(r.logger)

	if r.configPath != "" {
		fileCfg, err := config.LoadFromFile(r.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg := config.DefaultConfig()
		cfg.Merge(fileCfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		r.cfg = cfg
		return nil
	}

	cfg, err := config.NewLoader(r.logger).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	r.cfg = cfg
	return nil
}

func (r *root) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "streamdoc version %s\n", r.version)
		},
	}
}
