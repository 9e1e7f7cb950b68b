// Package mcp exposes the joke queries as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	"github.com/kailas-cloud/jokedex/internal/logger"
	generateuc "github.com/kailas-cloud/jokedex/internal/usecase/generate"
	queryuc "github.com/kailas-cloud/jokedex/internal/usecase/query"
)

// Tool names.
const (
	ToolSearch         = "search_jokes"
	ToolSearchMinScore = "search_jokes_by_score"
	ToolRandom         = "random_joke"
	ToolTop            = "top_jokes"
	ToolCounts         = "joke_counts"
	ToolSorted         = "jokes_sorted_by_score"
	ToolGenerate       = "generate_joke"
)

// Server serves the query and generator use cases as MCP tools.
type Server struct {
	name        string
	version     string
	query       *queryuc.Service
	generators  *generateuc.Registry
	defaultTopN int
	logger      *zap.Logger
}

// NewServer creates an MCP tool server.
func NewServer(
	name, version string,
	query *queryuc.Service,
	generators *generateuc.Registry,
	logger *zap.Logger,
) *Server {
	return &Server{
		name:        name,
		version:     version,
		query:       query,
		generators:  generators,
		defaultTopN: queryuc.DefaultTopN,
		logger:      logger,
	}
}

// WithDefaultTopN sets the n used by top_jokes when the caller omits it.
func (s *Server) WithDefaultTopN(n int) *Server {
	if n > 0 {
		s.defaultTopN = n
	}
	return s
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(s.name, s.version, server.WithToolCapabilities(false))
	srv.AddTools(s.tools()...)
	return srv
}

// ServeStdio serves over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

// NewSSEServer serves over HTTP server-sent events at addr.
func (s *Server) NewSSEServer(addr string) *server.SSEServer {
	return server.NewSSEServer(s.MCPServer(), server.WithBaseURL("http://"+addr))
}

func (s *Server) tools() []server.ServerTool {
	datasets := mcp.WithArray("datasets",
		mcp.Description("Dataset names to search; all datasets when omitted"),
		mcp.Items(map[string]any{"type": "string"}),
	)
	keyword := mcp.WithString("keyword",
		mcp.Required(),
		mcp.Description("Case-insensitive text to look for in joke bodies"),
	)

	return []server.ServerTool{
		{
			Tool: mcp.NewTool(ToolSearch,
				mcp.WithDescription("Find jokes whose body contains a keyword, grouped by dataset"),
				keyword,
				datasets,
			),
			Handler: s.handleSearch,
		},
		{
			Tool: mcp.NewTool(ToolSearchMinScore,
				mcp.WithDescription("Find jokes containing a keyword with at least the given score"),
				keyword,
				mcp.WithNumber("min_score",
					mcp.Required(),
					mcp.Description("Inclusive lower bound on the joke score"),
				),
				datasets,
			),
			Handler: s.handleSearchMinScore,
		},
		{
			Tool: mcp.NewTool(ToolRandom,
				mcp.WithDescription("Pick a random joke from a dataset"),
				mcp.WithString("dataset", mcp.Required(), mcp.Description("Dataset name")),
			),
			Handler: s.handleRandom,
		},
		{
			Tool: mcp.NewTool(ToolTop,
				mcp.WithDescription("List the highest-scored jokes of a dataset"),
				mcp.WithString("dataset", mcp.Required(), mcp.Description("Dataset name")),
				mcp.WithNumber("n", mcp.Description("Number of jokes to return")),
			),
			Handler: s.handleTop,
		},
		{
			Tool: mcp.NewTool(ToolCounts,
				mcp.WithDescription("Count the jokes of every dataset"),
			),
			Handler: s.handleCounts,
		},
		{
			Tool: mcp.NewTool(ToolSorted,
				mcp.WithDescription("List every joke of every dataset sorted by score"),
				mcp.WithBoolean("ascending", mcp.Description("Lowest score first; highest first when omitted")),
			),
			Handler: s.handleSorted,
		},
		{
			Tool: mcp.NewTool(ToolGenerate,
				mcp.WithDescription("Produce a new joke with a registered generator"),
				mcp.WithString("generator", mcp.Required(), mcp.Description("Generator name")),
			),
			Handler: s.handleGenerate,
		},
	}
}

// jokeResult is the JSON shape of a joke in tool results.
type jokeResult struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
	Score *int   `json:"score,omitempty"`
}

func toResult(j *joke.Joke) jokeResult {
	return jokeResult{ID: j.ID(), Title: j.Title(), Body: j.Body(), Score: j.ScorePtr()}
}

func toResults(jokes []joke.Joke) []jokeResult {
	out := make([]jokeResult, len(jokes))
	for i := range jokes {
		out[i] = toResult(&jokes[i])
	}
	return out
}

func groupedResults(res map[string][]joke.Joke) map[string][]jokeResult {
	out := make(map[string][]jokeResult, len(res))
	for name, jokes := range res {
		out[name] = toResults(jokes)
	}
	return out
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	kw, err := request.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	datasets, err := stringSliceArg(request.GetArguments(), "datasets")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.query.Search(ctx, kw, datasets)
	if err != nil {
		return s.toolError(ctx, err), nil
	}
	return jsonResult(groupedResults(res))
}

func (s *Server) handleSearchMinScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	kw, err := request.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	minScore, ok, err := intArg(args, "min_score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(`required argument "min_score" not found`), nil
	}
	datasets, err := stringSliceArg(args, "datasets")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.query.SearchWithMinScore(ctx, kw, minScore, datasets)
	if err != nil {
		return s.toolError(ctx, err), nil
	}
	return jsonResult(groupedResults(res))
}

func (s *Server) handleRandom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	dataset, err := request.RequireString("dataset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	j, err := s.query.Random(ctx, dataset)
	if err != nil {
		return s.toolError(ctx, err), nil
	}
	return jsonResult(toResult(&j))
}

func (s *Server) handleTop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	dataset, err := request.RequireString("dataset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, ok, err := intArg(request.GetArguments(), "n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		n = s.defaultTopN
	}

	jokes, err := s.query.Top(ctx, dataset, n)
	if err != nil {
		return s.toolError(ctx, err), nil
	}
	return jsonResult(toResults(jokes))
}

func (s *Server) handleCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	return jsonResult(s.query.CountByDataset(ctx))
}

func (s *Server) handleSorted(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	ascending := false
	if v, ok := request.GetArguments()["ascending"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return mcp.NewToolResultError(`argument "ascending" must be a boolean`), nil
		}
		ascending = b
	}

	jokes, err := s.query.AllSortedByScore(ctx, !ascending)
	if err != nil {
		return s.toolError(ctx, err), nil
	}
	return jsonResult(toResults(jokes))
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, request)
	name, err := request.RequireString("generator")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	j, err := s.generators.Generate(ctx, name)
	if err != nil {
		return s.toolError(ctx, err), nil
	}
	return jsonResult(toResult(&j))
}

func (s *Server) withLogger(ctx context.Context, request mcp.CallToolRequest) context.Context {
	return logger.ContextWithLogger(ctx, s.logger.With(zap.String("tool", request.Params.Name)))
}

// toolError turns a domain error into a tool-level error the model can read.
// Errors outside the domain vocabulary are reported generically.
func (s *Server) toolError(ctx context.Context, err error) *mcp.CallToolResult {
	log := logger.FromContext(ctx)
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidArgument,
		domain.ErrMissingScore,
		domain.ErrGenerationFailed,
	} {
		if errors.Is(err, sentinel) {
			log.Warn("tool call failed", zap.Error(err))
			return mcp.NewToolResultError(err.Error())
		}
	}
	log.Error("tool call failed", zap.Error(err))
	return mcp.NewToolResultError("internal error")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// intArg reads an integral argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false, fmt.Errorf("argument %q must be an integer", key)
		}
		return int(n), true, nil
	case int:
		return n, true, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("argument %q must be an integer", key)
		}
		return int(i), true, nil
	default:
		return 0, false, fmt.Errorf("argument %q must be a number", key)
	}
}

// stringSliceArg reads an optional list of strings; absent means nil.
func stringSliceArg(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, isString := item.(string)
			if !isString {
				return nil, fmt.Errorf("argument %q must be a list of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("argument %q must be a list of strings", key)
	}
}
