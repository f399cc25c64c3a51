package export

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/seiri-tools/seiri/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram. Files are grouped
// into subgraphs by directory; imports edges become solid arrows and
// external modules render as stadium nodes.
func GenerateMermaid(g *graph.Graph) string {
	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	// Group files by directory.
	byDir := make(map[string][]string)
	for _, f := range g.Files() {
		dir := path.Dir(f.Path)
		byDir[dir] = append(byDir[dir], f.Path)
	}
	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, dir := range dirs {
		members := byDir[dir]
		sort.Strings(members)
		label := dir
		if label == "." {
			label = "/"
		}
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID("dir:"+dir), label))
		for _, member := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(member), path.Base(member)))
		}
		sb.WriteString("  end\n")
	}

	for _, e := range g.ExternalModules() {
		sb.WriteString(fmt.Sprintf("  %s([\"%s\"])\n", getID(e.ID), e.Name))
	}

	for _, e := range g.EdgesByKind(graph.EdgeKindImports) {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.SourceID), getID(e.TargetID)))
	}

	return sb.String()
}
