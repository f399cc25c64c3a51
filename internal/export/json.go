package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/seiri-tools/seiri/internal/graph"
)

// GraphExport is the top-level JSON export structure.
type GraphExport struct {
	Nodes    []NodeExport `json:"nodes"`
	Edges    []EdgeExport `json:"edges"`
	Metadata Metadata     `json:"metadata"`
}

// NodeExport describes one graph node. File, definition, and external
// module nodes share the shape; unused fields are omitted.
type NodeExport struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Language  string `json:"language,omitempty"`
	Kind      string `json:"kind,omitempty"`
	File      string `json:"file,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	LOC       int    `json:"loc,omitempty"`
}

// EdgeExport describes one directed edge.
type EdgeExport struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Metadata summarizes the analyzed project.
type Metadata struct {
	TotalFiles int      `json:"total_files"`
	Languages  []string `json:"languages"`
}

// FromGraph converts a graph into its export form. Node and edge order
// follows the graph's own insertion order, so exports are deterministic.
func FromGraph(g *graph.Graph) *GraphExport {
	out := &GraphExport{}

	langSet := make(map[string]bool)
	for _, f := range g.Files() {
		langSet[string(f.Language)] = true
		out.Nodes = append(out.Nodes, NodeExport{
			ID:       f.ID,
			Type:     string(graph.NodeKindFile),
			Name:     baseName(f.Path),
			Language: string(f.Language),
			LOC:      f.LOC,
		})
	}
	for _, d := range g.Definitions() {
		out.Nodes = append(out.Nodes, NodeExport{
			ID:        d.ID,
			Type:      string(graph.NodeKindDefinition),
			Name:      d.QualifiedName,
			Kind:      string(d.Kind),
			File:      d.File,
			StartLine: d.StartLine,
			EndLine:   d.EndLine,
		})
	}
	for _, e := range g.ExternalModules() {
		out.Nodes = append(out.Nodes, NodeExport{
			ID:   e.ID,
			Type: string(graph.NodeKindExternal),
			Name: e.Name,
		})
	}

	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, EdgeExport{
			Source: e.SourceID,
			Target: e.TargetID,
			Type:   string(e.Kind),
		})
	}

	languages := make([]string, 0, len(langSet))
	for l := range langSet {
		languages = append(languages, l)
	}
	sort.Strings(languages)
	out.Metadata = Metadata{
		TotalFiles: len(g.Files()),
		Languages:  languages,
	}
	return out
}

// Marshal renders the export as indented JSON.
func (e *GraphExport) Marshal() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// Load parses a previously marshaled export.
func Load(data []byte) (*GraphExport, error) {
	var e GraphExport
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse graph export: %w", err)
	}
	return &e, nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
