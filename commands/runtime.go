package commands

import (
	"context"
	"net/http"
	"os"

	"github.com/c360studio/streamdoc/chat"
	"github.com/c360studio/streamdoc/llm"
	"github.com/c360studio/streamdoc/retrieval"
)

// buildIndex creates the documentation index from the configured globs.
// When the model endpoint is reachable the index embeds chunks for hybrid
// search; otherwise it degrades to keyword search on its own.
func (r *root) buildIndex(ctx context.Context) (*retrieval.Index, error) {
	opts := []retrieval.IndexOption{retrieval.WithIndexLogger(r.logger)}
	if r.cfg.Model.Embedding != "" {
		opts = append(opts, retrieval.WithEmbedder(r.buildClient()))
	}
	idx := retrieval.NewIndex(opts...)

	count, err := retrieval.IndexGlobs(ctx, idx, r.cfg.Docs.Paths, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Info("documentation indexed", "documents", count, "chunks", idx.Len())
	return idx, nil
}

func (r *root) buildClient() *llm.Client {
	opts := []llm.ClientOption{
		llm.WithEmbeddingModel(r.cfg.Model.Embedding),
		llm.WithTemperature(r.cfg.Model.Temperature),
		llm.WithHTTPClient(&http.Client{Timeout: r.cfg.Model.Timeout}),
		llm.WithLogger(r.logger),
	}
	if key := os.Getenv(r.cfg.Model.APIKeyEnv); key != "" {
		opts = append(opts, llm.WithAPIKey(key))
	}
	return llm.NewClient(r.cfg.Model.Endpoint, r.cfg.Model.Chat, opts...)
}

func (r *root) buildAnswerer(idx *retrieval.Index) *chat.Answerer {
	return chat.NewAnswerer(r.buildClient(), idx, r.cfg.Docs.TopK, r.logger)
}
