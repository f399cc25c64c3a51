package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with all 5 graph tools registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "seiri",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_graph",
		Description: "Analyze a project and build its dependency graph. Walks the file tree, parses source files using tree-sitter, and extracts imports, definitions, and references across languages.",
	}, svc.BuildGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_definitions",
		Description: "Search for definitions (functions and containers) by qualified-name substring match. Optionally filter by kind and limit results.",
	}, svc.QueryDefinitions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "file_imports",
		Description: "List what a file imports, what imports it, and which external modules it depends on.",
	}, svc.FileImports)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Return node and edge counts plus the set of languages in the current graph.",
	}, svc.GraphStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "diagnostics",
		Description: "Return the problems recorded during the last build: unreadable files, parse failures, and dropped facts. Optionally filter by file.",
	}, svc.Diagnostics)

	return server
}

// RunMCPServer starts an HTTP server exposing the graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	server := NewGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
