package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiri-tools/seiri/internal/fact"
)

func hasEdge(t *testing.T, g *Graph, source, target string, kind EdgeKind) bool {
	t.Helper()
	for _, e := range g.Edges() {
		if e.SourceID == source && e.TargetID == target && e.Kind == kind {
			return true
		}
	}
	return false
}

func TestAssemble_FilesAndDefinitions(t *testing.T) {
	files := []SourceFile{
		{Path: "app/main.py", Language: fact.LangPython},
	}
	normalized := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Definition("app/main.py", fact.DefContainer, "App", 1, 10),
		fact.Definition("app/main.py", fact.DefFunction, "run", 2, 9),
		fact.Definition("app/main.py", fact.DefFunction, "main", 12, 15),
	})

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "app/main.py", Language: fact.LangPython, LOC: 15, Facts: normalized},
	})

	stats := g.Stats()
	assert.Equal(t, 1, stats.FileCount)
	assert.Equal(t, 3, stats.DefinitionCount)

	file, ok := g.FileByPath("app/main.py")
	require.True(t, ok)
	assert.Equal(t, 15, file.LOC)
	// Only top-level definitions hang off the file; App.run nests under App.
	assert.Len(t, file.Definitions, 2)

	appID := DefinitionID("app/main.py", "App", fact.DefContainer)
	runID := DefinitionID("app/main.py", "App.run", fact.DefFunction)
	assert.True(t, hasEdge(t, g, "app/main.py", appID, EdgeKindDefines))
	assert.True(t, hasEdge(t, g, appID, runID, EdgeKindDefines), "nested defines edge should come from the container")

	run, ok := g.DefinitionByID(runID)
	require.True(t, ok)
	assert.Equal(t, 2, run.StartLine)
	assert.Equal(t, 9, run.EndLine)
}

func TestAssemble_MergesDuplicateDefinitions(t *testing.T) {
	files := []SourceFile{{Path: "a.py", Language: fact.LangPython}}

	// The same (file, qualified, kind) triple seen twice collapses to one node.
	facts := []fact.Fact{
		fact.Definition("a.py", fact.DefFunction, "handler", 1, 4),
		fact.Definition("a.py", fact.DefFunction, "handler", 1, 4),
	}
	for i := range facts {
		facts[i].Def.QualifiedName = "handler"
	}

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "a.py", Language: fact.LangPython, Facts: facts},
	})

	assert.Equal(t, 1, g.Stats().DefinitionCount)
	file, _ := g.FileByPath("a.py")
	assert.Len(t, file.Definitions, 1)
}

func TestAssemble_ImportEdges(t *testing.T) {
	files := []SourceFile{
		{Path: "main.py", Language: fact.LangPython},
		{Path: "util.py", Language: fact.LangPython},
	}

	imports := []fact.Fact{
		fact.Import("main.py", 1, "util", "", "", 0),
		fact.Import("main.py", 2, "requests", "", "", 0),
		fact.Import("main.py", 3, "requests", "", "", 0),
	}
	for i := range imports {
		imports[i].Import.Name = imports[i].Import.Module
	}

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "main.py", Language: fact.LangPython, Facts: imports},
		{Path: "util.py", Language: fact.LangPython},
	})

	assert.True(t, hasEdge(t, g, "main.py", "util.py", EdgeKindImports))

	externals := g.ExternalModules()
	require.Len(t, externals, 1, "repeated external imports share one node")
	assert.Equal(t, "requests", externals[0].Name)
	assert.True(t, hasEdge(t, g, "main.py", externals[0].ID, EdgeKindImports))

	// The duplicate requests import must not produce a second edge.
	assert.Len(t, g.EdgesByKind(EdgeKindImports), 2)
}

func TestAssemble_SelfImportSkipped(t *testing.T) {
	files := []SourceFile{{Path: "pkg/__init__.py", Language: fact.LangPython}}

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "pkg/__init__.py", Language: fact.LangPython, Facts: []fact.Fact{
			fact.Import("pkg/__init__.py", 1, "", "", "", 1),
		}},
	})

	assert.Empty(t, g.EdgesByKind(EdgeKindImports))
	assert.Empty(t, g.ExternalModules())
}

func TestAssemble_ReferenceSameFileQualified(t *testing.T) {
	files := []SourceFile{{Path: "a.py", Language: fact.LangPython}}
	normalized := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Definition("a.py", fact.DefContainer, "Box", 1, 5),
		fact.Definition("a.py", fact.DefFunction, "open", 2, 4),
		fact.Definition("a.py", fact.DefFunction, "main", 7, 10),
		fact.Reference("a.py", fact.RefCall, "Box.open", 8),
	})

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "a.py", Language: fact.LangPython, Facts: normalized},
	})

	mainID := DefinitionID("a.py", "main", fact.DefFunction)
	openID := DefinitionID("a.py", "Box.open", fact.DefFunction)
	assert.True(t, hasEdge(t, g, mainID, openID, EdgeKindReferences),
		"reference inside main should originate from main's node")
}

func TestAssemble_ReferenceCrossFileBySimpleName(t *testing.T) {
	files := []SourceFile{
		{Path: "a.py", Language: fact.LangPython},
		{Path: "b.py", Language: fact.LangPython},
	}
	aFacts := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Reference("a.py", fact.RefCall, "helper", 1),
	})
	bFacts := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Definition("b.py", fact.DefFunction, "helper", 1, 3),
	})

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "a.py", Language: fact.LangPython, Facts: aFacts},
		{Path: "b.py", Language: fact.LangPython, Facts: bFacts},
	})

	helperID := DefinitionID("b.py", "helper", fact.DefFunction)
	assert.True(t, hasEdge(t, g, "a.py", helperID, EdgeKindReferences))
}

func TestAssemble_ReferenceDiscoveryOrderTieBreak(t *testing.T) {
	files := []SourceFile{
		{Path: "a.py", Language: fact.LangPython},
		{Path: "b.py", Language: fact.LangPython},
		{Path: "c.py", Language: fact.LangPython},
	}
	def := func(file string) []fact.Fact {
		return fact.NewNormalizer().NormalizeFile([]fact.Fact{
			fact.Definition(file, fact.DefFunction, "process", 1, 3),
		})
	}
	refs := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Reference("c.py", fact.RefCall, "process", 1),
	})

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "a.py", Language: fact.LangPython, Facts: def("a.py")},
		{Path: "b.py", Language: fact.LangPython, Facts: def("b.py")},
		{Path: "c.py", Language: fact.LangPython, Facts: refs},
	})

	firstID := DefinitionID("a.py", "process", fact.DefFunction)
	assert.True(t, hasEdge(t, g, "c.py", firstID, EdgeKindReferences),
		"first discovered definition wins the simple-name tie")
	assert.Len(t, g.EdgesByKind(EdgeKindReferences), 1)
}

func TestAssemble_UnmatchedReferenceDropped(t *testing.T) {
	files := []SourceFile{{Path: "a.py", Language: fact.LangPython}}
	refs := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Reference("a.py", fact.RefCall, "print", 1),
	})

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "a.py", Language: fact.LangPython, Facts: refs},
	})

	assert.Empty(t, g.EdgesByKind(EdgeKindReferences))
}

func TestAssemble_RustScopedReference(t *testing.T) {
	files := []SourceFile{
		{Path: "src/main.rs", Language: fact.LangRust},
		{Path: "src/util.rs", Language: fact.LangRust},
	}
	utilFacts := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Definition("src/util.rs", fact.DefFunction, "helper", 1, 3),
	})
	mainFacts := fact.NewNormalizer().NormalizeFile([]fact.Fact{
		fact.Reference("src/main.rs", fact.RefCall, "util::helper", 2),
	})

	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "src/main.rs", Language: fact.LangRust, Facts: mainFacts},
		{Path: "src/util.rs", Language: fact.LangRust, Facts: utilFacts},
	})

	helperID := DefinitionID("src/util.rs", "helper", fact.DefFunction)
	assert.True(t, hasEdge(t, g, "src/main.rs", helperID, EdgeKindReferences))
}

func TestGraph_AccessorsReturnCopies(t *testing.T) {
	files := []SourceFile{{Path: "a.py", Language: fact.LangPython}}
	g := NewAssembler(files).Assemble([]FileFacts{
		{Path: "a.py", Language: fact.LangPython, LOC: 3},
	})

	got := g.Files()
	require.Len(t, got, 1)
	got[0].LOC = 999

	again, _ := g.FileByPath("a.py")
	assert.Equal(t, 3, again.LOC, "mutating a returned slice must not affect the graph")
}
