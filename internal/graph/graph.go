package graph

import "github.com/seiri-tools/seiri/internal/fact"

// Graph is the finalized node/edge collection. The Graph owns all nodes and
// edges; external collaborators (exporters, the MCP server) only ever see
// copies through the read-only accessors. All mutation happens inside this
// package during assembly.
type Graph struct {
	files     map[string]*FileNode
	fileOrder []string

	defs     map[string]*DefinitionNode
	defOrder []string

	// externals is an arena keyed by canonical module name: every unresolved
	// import of the same module reuses one node.
	externals map[string]*ExternalModuleNode
	extOrder  []string

	edges   []Edge
	edgeSet map[Edge]struct{}
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		files:     make(map[string]*FileNode),
		defs:      make(map[string]*DefinitionNode),
		externals: make(map[string]*ExternalModuleNode),
		edgeSet:   make(map[Edge]struct{}),
	}
}

// DefinitionID builds the stable identifier for a definition node.
func DefinitionID(file, qualified string, kind fact.DefKind) string {
	return file + "::" + qualified + "::" + string(kind)
}

// ExternalID builds the stable identifier for an external module node.
func ExternalID(name string) string {
	return "ext::" + name
}

// ensureFile adds a FileNode if absent and returns it. The file's ID is its
// project-relative path.
func (g *Graph) ensureFile(path string, lang fact.Language, loc int) *FileNode {
	if n, ok := g.files[path]; ok {
		return n
	}
	n := &FileNode{ID: path, Path: path, Language: lang, LOC: loc}
	g.files[path] = n
	g.fileOrder = append(g.fileOrder, path)
	return n
}

// upsertDefinition merges a definition into the graph. Re-encountering the
// same (file, qualified name, kind) triple returns the existing node instead
// of duplicating it.
func (g *Graph) upsertDefinition(file, qualified string, kind fact.DefKind, startLine, endLine int) *DefinitionNode {
	id := DefinitionID(file, qualified, kind)
	if n, ok := g.defs[id]; ok {
		return n
	}
	n := &DefinitionNode{
		ID:            id,
		QualifiedName: qualified,
		Kind:          kind,
		File:          file,
		StartLine:     startLine,
		EndLine:       endLine,
	}
	g.defs[id] = n
	g.defOrder = append(g.defOrder, id)
	return n
}

// ensureExternal returns the arena node for a module name, creating it once.
func (g *Graph) ensureExternal(name string) *ExternalModuleNode {
	if n, ok := g.externals[name]; ok {
		return n
	}
	n := &ExternalModuleNode{ID: ExternalID(name), Name: name}
	g.externals[name] = n
	g.extOrder = append(g.extOrder, name)
	return n
}

// addEdge inserts an edge unless the same (source, target, kind) triple
// already exists. Returns true if the edge was added.
func (g *Graph) addEdge(sourceID, targetID string, kind EdgeKind) bool {
	e := Edge{SourceID: sourceID, TargetID: targetID, Kind: kind}
	if _, ok := g.edgeSet[e]; ok {
		return false
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	return true
}

// --- Read-only accessors ---

// Files returns all file nodes in discovery order.
func (g *Graph) Files() []FileNode {
	out := make([]FileNode, 0, len(g.fileOrder))
	for _, p := range g.fileOrder {
		out = append(out, *g.files[p])
	}
	return out
}

// FileByPath returns the file node for a path, if present.
func (g *Graph) FileByPath(path string) (FileNode, bool) {
	n, ok := g.files[path]
	if !ok {
		return FileNode{}, false
	}
	return *n, true
}

// Definitions returns all definition nodes in insertion order.
func (g *Graph) Definitions() []DefinitionNode {
	out := make([]DefinitionNode, 0, len(g.defOrder))
	for _, id := range g.defOrder {
		out = append(out, *g.defs[id])
	}
	return out
}

// DefinitionByID returns the definition node with the given ID, if present.
func (g *Graph) DefinitionByID(id string) (DefinitionNode, bool) {
	n, ok := g.defs[id]
	if !ok {
		return DefinitionNode{}, false
	}
	return *n, true
}

// ExternalModules returns all external module nodes in insertion order.
func (g *Graph) ExternalModules() []ExternalModuleNode {
	out := make([]ExternalModuleNode, 0, len(g.extOrder))
	for _, name := range g.extOrder {
		out = append(out, *g.externals[name])
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgesByKind returns all edges of the given kind.
func (g *Graph) EdgesByKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Stats returns node and edge counts.
func (g *Graph) Stats() Stats {
	return Stats{
		FileCount:           len(g.files),
		DefinitionCount:     len(g.defs),
		ExternalModuleCount: len(g.externals),
		EdgeCount:           len(g.edges),
	}
}
