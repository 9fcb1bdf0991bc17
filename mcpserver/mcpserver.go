// Package mcpserver exposes the lint, fix, search and chat operations as
// MCP tools over stdio, so editor agents can call them directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/c360studio/streamdoc/autofix"
	"github.com/c360studio/streamdoc/chat"
	"github.com/c360studio/streamdoc/extval"
	"github.com/c360studio/streamdoc/retrieval"
	"github.com/c360studio/streamdoc/validate"
)

const defaultSearchK = 6

// Asker answers documentation questions.
type Asker interface {
	Ask(ctx context.Context, question string) (*chat.Answer, error)
}

// Server wires the engine packages into MCP tool handlers. The asker and
// external validator are optional; absent collaborators degrade the
// corresponding tools rather than failing startup.
type Server struct {
	index  *retrieval.Index
	asker  Asker
	extval *extval.Client
	logger *slog.Logger

	mcp *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithAsker enables the ask_docs tool.
func WithAsker(a Asker) Option {
	return func(s *Server) { s.asker = a }
}

// WithExternalValidator merges authoritative findings into lint results.
func WithExternalValidator(c *extval.Client) Option {
	return func(s *Server) { s.extval = c }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds the MCP server and registers the tool set.
func New(version string, index *retrieval.Index, opts ...Option) *Server {
	s := &Server{
		index:  index,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"streamdoc",
		version,
		server.WithLogging(),
	)
	s.registerTools()
	return s
}

// Run serves MCP requests over stdio until the client disconnects.
func (s *Server) Run() error {
	s.logger.Info("starting mcp server")
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("serving mcp: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("lint_config",
		mcp.WithDescription("Validate a pipeline configuration and report errors, warnings and suggestions."),
		mcp.WithString("config", mcp.Required(), mcp.Description("Pipeline configuration text")),
	), s.handleLint)

	s.mcp.AddTool(mcp.NewTool("fix_config",
		mcp.WithDescription("Rewrite high-confidence mistakes in a pipeline configuration and return the corrected text."),
		mcp.WithString("config", mcp.Required(), mcp.Description("Pipeline configuration text")),
	), s.handleFix)

	s.mcp.AddTool(mcp.NewTool("search_docs",
		mcp.WithDescription("Search the indexed pipeline documentation and return the most relevant excerpts."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
	), s.handleSearch)

	s.mcp.AddTool(mcp.NewTool("ask_docs",
		mcp.WithDescription("Ask a documentation question and get an answer grounded in the indexed docs."),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question about pipeline configuration")),
	), s.handleAsk)
}

func (s *Server) handleLint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configText := mcp.ParseString(request, "config", "")
	if configText == "" {
		return mcp.NewToolResultError("config must not be empty"), nil
	}

	result := validate.Config(configText)
	if s.extval.Enabled() {
		result = s.extval.Merge(ctx, configText, result)
	}
	s.logger.Debug("lint tool call", "valid", result.Valid, "errors", len(result.Errors))
	return toolResultJSON(result)
}

func (s *Server) handleFix(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configText := mcp.ParseString(request, "config", "")
	if configText == "" {
		return mcp.NewToolResultError("config must not be empty"), nil
	}

	result := autofix.Apply(configText)
	s.logger.Debug("fix tool call", "applied", len(result.AppliedFixes))
	return toolResultJSON(result)
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := mcp.ParseString(request, "query", "")
	if query == "" {
		return mcp.NewToolResultError("query must not be empty"), nil
	}

	hits, err := s.index.Search(ctx, query, defaultSearchK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	type searchHit struct {
		Path    string  `json:"path"`
		Section string  `json:"section"`
		Score   float64 `json:"score"`
		Content string  `json:"content"`
	}
	results := make([]searchHit, 0, len(hits))
	for _, hit := range hits {
		results = append(results, searchHit{
			Path:    hit.Chunk.Path,
			Section: hit.Chunk.Section,
			Score:   hit.Score,
			Content: hit.Chunk.Content,
		})
	}
	return toolResultJSON(map[string]any{"hits": results})
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.asker == nil {
		return mcp.NewToolResultError("no language model configured"), nil
	}

	question := mcp.ParseString(request, "question", "")
	if question == "" {
		return mcp.NewToolResultError("question must not be empty"), nil
	}

	answer, err := s.asker.Ask(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}
	return toolResultJSON(answer)
}

func toolResultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
