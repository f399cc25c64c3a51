package export

import (
	"fmt"
	"strings"

	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

// GenerateText renders a plain-text project summary: file inventory,
// external dependencies, and the import/reference edge list.
func GenerateText(g *graph.Graph, diags []fact.Diagnostic) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 40)

	stats := g.Stats()
	files := g.Files()
	externals := g.ExternalModules()

	sb.WriteString(rule + "\n")
	sb.WriteString("SEIRI - PROJECT STRUCTURE\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Total files: %d\n", stats.FileCount)
	fmt.Fprintf(&sb, "Definitions: %d\n", stats.DefinitionCount)
	fmt.Fprintf(&sb, "Edges: %d\n", stats.EdgeCount)

	fmt.Fprintf(&sb, "\nFILES (%d):\n%s\n", len(files), thin)
	for _, f := range files {
		fmt.Fprintf(&sb, "  %s (%s) - %d definitions, %d loc\n",
			f.Path, f.Language, len(f.Definitions), f.LOC)
	}

	if len(externals) > 0 {
		fmt.Fprintf(&sb, "\nEXTERNAL DEPENDENCIES (%d):\n%s\n", len(externals), thin)
		for _, e := range externals {
			fmt.Fprintf(&sb, "  %s\n", e.Name)
		}
	}

	imports := g.EdgesByKind(graph.EdgeKindImports)
	references := g.EdgesByKind(graph.EdgeKindReferences)
	fmt.Fprintf(&sb, "\nDEPENDENCIES (%d):\n%s\n", len(imports)+len(references), thin)
	for _, e := range imports {
		fmt.Fprintf(&sb, "  %s -> %s (imports)\n", edgeLabel(g, e.SourceID), edgeLabel(g, e.TargetID))
	}
	for _, e := range references {
		fmt.Fprintf(&sb, "  %s -> %s (references)\n", edgeLabel(g, e.SourceID), edgeLabel(g, e.TargetID))
	}

	if len(diags) > 0 {
		fmt.Fprintf(&sb, "\nDIAGNOSTICS (%d):\n%s\n", len(diags), thin)
		for _, d := range diags {
			fmt.Fprintf(&sb, "  %s: %s\n", d.File, d.Message)
		}
	}

	sb.WriteString(rule + "\n")
	return sb.String()
}

// edgeLabel resolves a node ID to something readable: definitions show
// their qualified name, everything else shows the ID as-is.
func edgeLabel(g *graph.Graph, id string) string {
	if d, ok := g.DefinitionByID(id); ok {
		return d.File + ":" + d.QualifiedName
	}
	if e, ok := externalName(id); ok {
		return e
	}
	return id
}

func externalName(id string) (string, bool) {
	const prefix = "ext::"
	if strings.HasPrefix(id, prefix) {
		return strings.TrimPrefix(id, prefix), true
	}
	return "", false
}
