package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	files := []graph.SourceFile{
		{Path: "app/main.py", Language: fact.LangPython},
		{Path: "app/util.py", Language: fact.LangPython},
		{Path: "web/index.ts", Language: fact.LangTypeScript},
	}
	mainFacts := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Import("app/main.py", 1, "util", "util", "", 1),
		fact.Import("app/main.py", 2, "flask", "flask", "", 0),
		fact.Definition("app/main.py", fact.DefFunction, "main", 4, 6),
	})
	utilFacts := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Definition("app/util.py", fact.DefFunction, "helper", 1, 2),
	})
	return graph.NewAssembler(files).Assemble([]graph.FileFacts{
		{Path: "app/main.py", Language: fact.LangPython, LOC: 6, Facts: mainFacts},
		{Path: "app/util.py", Language: fact.LangPython, LOC: 2, Facts: utilFacts},
		{Path: "web/index.ts", Language: fact.LangTypeScript, LOC: 1},
	})
}

func TestJSONExport_RoundTrip(t *testing.T) {
	g := sampleGraph(t)

	data, err := FromGraph(g).Marshal()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)

	stats := g.Stats()
	assert.Len(t, loaded.Nodes, stats.FileCount+stats.DefinitionCount+stats.ExternalModuleCount)
	assert.Len(t, loaded.Edges, stats.EdgeCount)
	assert.Equal(t, 3, loaded.Metadata.TotalFiles)
	assert.Equal(t, []string{"python", "typescript"}, loaded.Metadata.Languages)

	assert.Contains(t, loaded.Edges, EdgeExport{
		Source: "app/main.py",
		Target: "app/util.py",
		Type:   "imports",
	})
	assert.Contains(t, loaded.Edges, EdgeExport{
		Source: "app/main.py",
		Target: graph.ExternalID("flask"),
		Type:   "imports",
	})
}

func TestJSONExport_NodeFields(t *testing.T) {
	e := FromGraph(sampleGraph(t))

	var file, def, ext *NodeExport
	for i := range e.Nodes {
		switch {
		case e.Nodes[i].ID == "app/main.py":
			file = &e.Nodes[i]
		case e.Nodes[i].Name == "helper":
			def = &e.Nodes[i]
		case e.Nodes[i].Type == "external":
			ext = &e.Nodes[i]
		}
	}

	require.NotNil(t, file)
	assert.Equal(t, "main.py", file.Name)
	assert.Equal(t, "python", file.Language)
	assert.Equal(t, 6, file.LOC)

	require.NotNil(t, def)
	assert.Equal(t, "definition", def.Type)
	assert.Equal(t, "app/util.py", def.File)
	assert.Equal(t, 1, def.StartLine)
	assert.Equal(t, 2, def.EndLine)

	require.NotNil(t, ext)
	assert.Equal(t, "flask", ext.Name)
}

func TestJSONExport_Deterministic(t *testing.T) {
	g := sampleGraph(t)

	first, err := FromGraph(g).Marshal()
	require.NoError(t, err)
	second, err := FromGraph(g).Marshal()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(sampleGraph(t))

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `subgraph`)
	assert.Contains(t, out, `["main.py"]`)
	assert.Contains(t, out, `(["flask"])`)
	assert.Contains(t, out, " --> ")
}

func TestGenerateText(t *testing.T) {
	diags := []fact.Diagnostic{{File: "app/old.py", Message: "syntax error at line 3"}}
	out := GenerateText(sampleGraph(t), diags)

	assert.Contains(t, out, "Total files: 3")
	assert.Contains(t, out, "app/main.py (python)")
	assert.Contains(t, out, "flask")
	assert.Contains(t, out, "app/main.py -> app/util.py (imports)")
	assert.Contains(t, out, "DIAGNOSTICS (1)")
	assert.Contains(t, out, "app/old.py: syntax error at line 3")
}

func TestGenerateSVG(t *testing.T) {
	out := GenerateSVG(sampleGraph(t))

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Contains(t, out, "<circle")
	assert.Contains(t, out, "<line")
	assert.Contains(t, out, ">main.py</text>")
	assert.Contains(t, out, "3 files")
}
