package graph

import "github.com/seiri-tools/seiri/internal/fact"

// --- Enums ---

// NodeKind classifies nodes in the dependency graph.
type NodeKind string

const (
	NodeKindFile       NodeKind = "file"
	NodeKindDefinition NodeKind = "definition"
	NodeKindExternal   NodeKind = "external"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	EdgeKindImports    EdgeKind = "imports"
	EdgeKindReferences EdgeKind = "references"
	EdgeKindDefines    EdgeKind = "defines"
)

// --- Models ---

// SourceFile is one discovered project file with its detected language.
// The ordered set of SourceFiles is the complete file universe the resolver
// and assembler work against.
type SourceFile struct {
	Path     string        `json:"path"`
	Language fact.Language `json:"language"`
}

// FileNode represents a source file in the graph.
type FileNode struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Language    fact.Language `json:"language"`
	LOC         int           `json:"loc"`
	Definitions []string      `json:"definitions,omitempty"` // top-level definition node IDs
}

// DefinitionNode represents a function or container definition. A
// (file, qualified name, kind) triple maps to exactly one DefinitionNode.
type DefinitionNode struct {
	ID            string       `json:"id"`
	QualifiedName string       `json:"qualified_name"`
	Kind          fact.DefKind `json:"kind"`
	File          string       `json:"file"`
	StartLine     int          `json:"start_line"`
	EndLine       int          `json:"end_line"`
}

// ExternalModuleNode is an imported module that could not be mapped to any
// project file (standard library, third-party). It records the dependency
// without claiming ownership of it.
type ExternalModuleNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Edge is a directed relationship between two nodes. Edges form a set:
// duplicates of the same (source, target, kind) triple are suppressed.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Kind     EdgeKind `json:"kind"`
}

// Stats summarizes a dependency graph.
type Stats struct {
	FileCount           int `json:"fileCount"`
	DefinitionCount     int `json:"definitionCount"`
	ExternalModuleCount int `json:"externalModuleCount"`
	EdgeCount           int `json:"edgeCount"`
}
