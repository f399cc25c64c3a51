package export

import (
	"fmt"
	"path"
	"strings"

	"github.com/seiri-tools/seiri/internal/graph"
	"github.com/seiri-tools/seiri/internal/layout"
)

const (
	svgSize       = 900.0
	svgNodeRadius = 14.0
)

// Fill colors keyed by language, with fallbacks for unknown languages and
// external modules.
var svgColors = map[string]string{
	"go":         "#00add8",
	"javascript": "#f7df1e",
	"python":     "#3776ab",
	"rust":       "#dea584",
	"typescript": "#3178c6",
	"external":   "#999999",
	"default":    "#cccccc",
}

// GenerateSVG renders file and external-module nodes on a circle with
// imports edges drawn as lines between them. Definition nodes are omitted;
// the drawing shows file-level structure only.
func GenerateSVG(g *graph.Graph) string {
	var ids []string
	fill := make(map[string]string)
	label := make(map[string]string)

	for _, f := range g.Files() {
		ids = append(ids, f.ID)
		label[f.ID] = truncateLabel(path.Base(f.Path))
		if c, ok := svgColors[string(f.Language)]; ok {
			fill[f.ID] = c
		} else {
			fill[f.ID] = svgColors["default"]
		}
	}
	for _, e := range g.ExternalModules() {
		ids = append(ids, e.ID)
		label[e.ID] = truncateLabel(e.Name)
		fill[e.ID] = svgColors["external"]
	}

	center := layout.Point{X: svgSize / 2, Y: svgSize / 2}
	positions := layout.Circular(ids, center, svgSize/2-80)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		svgSize, svgSize, svgSize, svgSize)
	sb.WriteString(`  <rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	// Edges under nodes.
	for _, e := range g.EdgesByKind(graph.EdgeKindImports) {
		src, okSrc := positions[e.SourceID]
		tgt, okTgt := positions[e.TargetID]
		if !okSrc || !okTgt {
			continue
		}
		fmt.Fprintf(&sb, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#666666" stroke-width="1.2"/>`+"\n",
			src.X, src.Y, tgt.X, tgt.Y)
	}

	for _, id := range ids {
		p := positions[id]
		fmt.Fprintf(&sb, `  <circle cx="%.1f" cy="%.1f" r="%.0f" fill="%s" stroke="#333333"/>`+"\n",
			p.X, p.Y, svgNodeRadius, fill[id])
		fmt.Fprintf(&sb, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" font-family="sans-serif">%s</text>`+"\n",
			p.X, p.Y+svgNodeRadius+13, escapeXML(label[id]))
	}

	stats := g.Stats()
	fmt.Fprintf(&sb, `  <text x="%.1f" y="30" text-anchor="middle" font-size="16" font-weight="bold" font-family="sans-serif">Project Structure - %d files</text>`+"\n",
		svgSize/2, stats.FileCount)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func truncateLabel(name string) string {
	if len(name) > 18 {
		return name[:16] + ".."
	}
	return name
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
