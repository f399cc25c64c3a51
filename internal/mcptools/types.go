package mcptools

import (
	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// BuildGraphInput is the input for the build_graph MCP tool.
type BuildGraphInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the project to analyze"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to analyze (default: all). Values: go, javascript, python, rust, typescript"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from analysis (e.g. vendor, node_modules)"`
}

// BuildGraphOutput is the result of the build_graph MCP tool.
type BuildGraphOutput struct {
	Stats       graph.Stats `json:"stats"`
	Diagnostics int         `json:"diagnostics"`
}

// QueryDefinitionsInput is the input for the query_definitions MCP tool.
type QueryDefinitionsInput struct {
	Query string `json:"query" jsonschema:"search query for definition names (substring match on the qualified name)"`
	Kind  string `json:"kind,omitempty" jsonschema:"filter by definition kind: function, container"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryDefinitionsOutput is the result of the query_definitions MCP tool.
type QueryDefinitionsOutput struct {
	Definitions []graph.DefinitionNode `json:"definitions"`
	Total       int                    `json:"total"`
}

// FileImportsInput is the input for the file_imports MCP tool.
type FileImportsInput struct {
	Path string `json:"path" jsonschema:"project-relative path of the file to inspect"`
}

// FileImportsOutput is the result of the file_imports MCP tool.
type FileImportsOutput struct {
	Imports    []string `json:"imports"`
	ImportedBy []string `json:"importedBy"`
	External   []string `json:"external"`
}

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct{}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	Stats     graph.Stats `json:"stats"`
	Languages []string    `json:"languages"`
}

// DiagnosticsInput is the input for the diagnostics MCP tool.
type DiagnosticsInput struct {
	File string `json:"file,omitempty" jsonschema:"only return diagnostics for this file"`
}

// DiagnosticsOutput is the result of the diagnostics MCP tool.
type DiagnosticsOutput struct {
	Diagnostics []fact.Diagnostic `json:"diagnostics"`
	Total       int               `json:"total"`
}
