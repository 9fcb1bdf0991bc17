package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/streamdoc/ingest"
	"github.com/c360studio/streamdoc/retrieval"
)

func (r *root) indexCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "index PATH",
		Short: "Inspect what the documentation index would contain",
		Long: `Index reports the documents and chunks produced from the given
paths or globs without starting a server, so doc globs can be checked
before serving. An https:// argument is fetched, converted to markdown
and saved under the output directory for later indexing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var patterns []string
			for _, arg := range args {
				if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
					saved, err := r.fetchPage(cmd, arg, outDir)
					if err != nil {
						return err
					}
					patterns = append(patterns, saved)
					continue
				}
				patterns = append(patterns, arg)
			}

			idx := retrieval.NewIndex(retrieval.WithIndexLogger(r.logger))
			count, err := retrieval.IndexGlobs(cmd.Context(), idx, patterns, r.logger)
			if err != nil {
				return fmt.Errorf("index docs: %w", err)
			}

			for _, path := range idx.Paths() {
				fmt.Fprintf(out, "  %s\n", path)
			}
			fmt.Fprintf(out, "%d document(s), %d chunk(s)\n", count, idx.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "docs/web", "Directory for fetched pages")
	return cmd
}

func (r *root) fetchPage(cmd *cobra.Command, pageURL, outDir string) (string, error) {
	page, err := ingest.FetchPage(cmd.Context(), pageURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", outDir, err)
	}
	path := filepath.Join(outDir, ingest.Slug(pageURL)+".md")
	if err := os.WriteFile(path, []byte(page.Markdown), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "fetched %s -> %s\n", pageURL, path)
	return path, nil
}
