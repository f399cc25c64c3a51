package mcptools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seiri-tools/seiri/internal/engine"
	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

// GraphService holds the result of the most recent build for the MCP tool
// handlers. A build replaces the snapshot atomically; queries before the
// first build fail with a clear error.
type GraphService struct {
	mu     sync.RWMutex
	graph  *graph.Graph
	diags  []fact.Diagnostic
	dbPath string
}

// NewGraphService creates an empty service. dbPath, when non-empty, is a
// SQLite file each successful build is persisted to.
func NewGraphService(dbPath string) *GraphService {
	return &GraphService{dbPath: dbPath}
}

func (s *GraphService) snapshot() (*graph.Graph, []fact.Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, nil, fmt.Errorf("no graph built yet: call build_graph first")
	}
	return s.graph, s.diags, nil
}

// BuildGraph analyzes a project and replaces the current graph snapshot.
func (s *GraphService) BuildGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildGraphInput,
) (*mcp.CallToolResult, BuildGraphOutput, error) {
	if input.RepoPath == "" {
		return nil, BuildGraphOutput{}, fmt.Errorf("repoPath is required")
	}

	langs := make([]fact.Language, 0, len(input.Languages))
	for _, l := range input.Languages {
		langs = append(langs, fact.Language(strings.ToLower(l)))
	}

	result, err := engine.Build(ctx, engine.Options{
		Root:        input.RepoPath,
		Languages:   langs,
		ExcludeDirs: input.ExcludeDirs,
	})
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("build graph: %w", err)
	}

	s.mu.Lock()
	s.graph = result.Graph
	s.diags = result.Diagnostics
	s.mu.Unlock()

	if s.dbPath != "" {
		store, err := graph.NewSQLiteStore(s.dbPath)
		if err != nil {
			return nil, BuildGraphOutput{}, fmt.Errorf("open store: %w", err)
		}
		defer store.Close()
		if err := store.SaveGraph(ctx, result.Graph); err != nil {
			return nil, BuildGraphOutput{}, fmt.Errorf("persist graph: %w", err)
		}
	}

	return nil, BuildGraphOutput{
		Stats:       result.Graph.Stats(),
		Diagnostics: len(result.Diagnostics),
	}, nil
}

// QueryDefinitions searches definitions by qualified-name substring match.
func (s *GraphService) QueryDefinitions(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input QueryDefinitionsInput,
) (*mcp.CallToolResult, QueryDefinitionsOutput, error) {
	g, _, err := s.snapshot()
	if err != nil {
		return nil, QueryDefinitionsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	query := strings.ToLower(input.Query)
	var matches []graph.DefinitionNode
	for _, d := range g.Definitions() {
		if query != "" && !strings.Contains(strings.ToLower(d.QualifiedName), query) {
			continue
		}
		if input.Kind != "" && string(d.Kind) != strings.ToLower(input.Kind) {
			continue
		}
		matches = append(matches, d)
	}

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return nil, QueryDefinitionsOutput{Definitions: matches, Total: total}, nil
}

// FileImports reports what a file imports and what imports it.
func (s *GraphService) FileImports(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FileImportsInput,
) (*mcp.CallToolResult, FileImportsOutput, error) {
	g, _, err := s.snapshot()
	if err != nil {
		return nil, FileImportsOutput{}, err
	}
	if input.Path == "" {
		return nil, FileImportsOutput{}, fmt.Errorf("path is required")
	}
	file, ok := g.FileByPath(input.Path)
	if !ok {
		return nil, FileImportsOutput{}, fmt.Errorf("file not in graph: %s", input.Path)
	}

	extNames := make(map[string]string)
	for _, e := range g.ExternalModules() {
		extNames[e.ID] = e.Name
	}

	var out FileImportsOutput
	for _, e := range g.EdgesByKind(graph.EdgeKindImports) {
		switch {
		case e.SourceID == file.ID:
			if name, ok := extNames[e.TargetID]; ok {
				out.External = append(out.External, name)
			} else {
				out.Imports = append(out.Imports, e.TargetID)
			}
		case e.TargetID == file.ID:
			out.ImportedBy = append(out.ImportedBy, e.SourceID)
		}
	}
	sort.Strings(out.Imports)
	sort.Strings(out.ImportedBy)
	sort.Strings(out.External)
	return nil, out, nil
}

// GraphStats returns node and edge counts for the current graph.
func (s *GraphService) GraphStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	g, _, err := s.snapshot()
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}

	langSet := make(map[string]bool)
	for _, f := range g.Files() {
		langSet[string(f.Language)] = true
	}
	languages := make([]string, 0, len(langSet))
	for l := range langSet {
		languages = append(languages, l)
	}
	sort.Strings(languages)

	return nil, GraphStatsOutput{Stats: g.Stats(), Languages: languages}, nil
}

// Diagnostics returns the problems recorded during the last build.
func (s *GraphService) Diagnostics(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DiagnosticsInput,
) (*mcp.CallToolResult, DiagnosticsOutput, error) {
	_, diags, err := s.snapshot()
	if err != nil {
		return nil, DiagnosticsOutput{}, err
	}

	out := diags
	if input.File != "" {
		out = nil
		for _, d := range diags {
			if d.File == input.File {
				out = append(out, d)
			}
		}
	}
	return nil, DiagnosticsOutput{Diagnostics: out, Total: len(out)}, nil
}
