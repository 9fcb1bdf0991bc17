package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/streamdoc/analytics"
	"github.com/c360studio/streamdoc/events"
	"github.com/c360studio/streamdoc/extval"
	"github.com/c360studio/streamdoc/retrieval"
	"github.com/c360studio/streamdoc/server"
)

func (r *root) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes lint, fix, search and chat over HTTP. Optional
collaborators are enabled by configuration: an authoritative external
validator, SQLite usage analytics and NATS event publishing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runServe(cmd)
		},
	}
}

func (r *root) runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	idx, err := r.buildIndex(ctx)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	opts := []server.Option{
		server.WithLogger(r.logger),
		server.WithAsker(r.buildAnswerer(idx)),
		server.WithMaxBodyBytes(r.cfg.Server.MaxBodyBytes),
		server.WithShutdownTimeout(r.cfg.Server.ShutdownTimeout),
	}

	if r.cfg.Validator.Endpoint != "" {
		opts = append(opts, server.WithExternalValidator(
			extval.NewClient(r.cfg.Validator.Endpoint, r.cfg.Validator.Timeout, r.logger)))
	}

	if r.cfg.Analytics.Path != "" {
		store, err := analytics.Open(r.cfg.Analytics.Path, analytics.Config{
			BatchSize:     analytics.DefaultConfig().BatchSize,
			FlushInterval: r.cfg.Analytics.FlushInterval,
			BufferSize:    r.cfg.Analytics.BufferSize,
		})
		if err != nil {
			return fmt.Errorf("open analytics store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				r.logger.Warn("closing analytics store", "error", err)
			}
		}()
		opts = append(opts, server.WithAnalytics(store))
	}

	publisher, err := events.Connect(r.cfg.Events.URL, r.cfg.Events.SubjectPrefix, r.logger)
	if err != nil {
		return fmt.Errorf("connect event publisher: %w", err)
	}
	defer publisher.Close()
	opts = append(opts, server.WithEvents(publisher))

	if r.cfg.Docs.Watch {
		files, err := retrieval.Discover(r.cfg.Docs.Paths)
		if err != nil {
			return fmt.Errorf("discover docs: %w", err)
		}
		watcher, err := retrieval.NewWatcher(idx, files, r.logger)
		if err != nil {
			r.logger.Warn("documentation watcher disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil {
					r.logger.Warn("documentation watcher stopped", "error", err)
				}
			}()
		}
	}

	srv := server.New(r.cfg.Server.Address, idx, opts...)
	return srv.Run(ctx)
}
