package graph

import (
	"strings"

	"github.com/seiri-tools/seiri/internal/fact"
)

// FileFacts is one file's normalized fact list, tagged with its origin.
type FileFacts struct {
	Path     string
	Language fact.Language
	LOC      int
	Facts    []fact.Fact
}

// Assembler accumulates normalized facts from every file into one Graph:
// definitions are merged into DefinitionNodes, imports are resolved to file
// or external-module nodes, and references are linked to definitions. The
// assembler never fails; anything it cannot place degrades to "no edge".
type Assembler struct {
	g        *Graph
	resolver *Resolver

	// defByFileQual maps file + "\x00" + qualified name to a definition node
	// ID, first definition wins. Used for nesting and same-file reference
	// lookup.
	defByFileQual map[string]string

	// defsBySimple maps a bare definition name to node IDs in discovery
	// order, for the project-wide reference fallback.
	defsBySimple map[string][]string
}

// NewAssembler prepares an assembler for the given discovered file set. The
// file set is the resolver's immutable snapshot; it must be complete before
// assembly starts.
func NewAssembler(files []SourceFile) *Assembler {
	return &Assembler{
		g:             NewGraph(),
		resolver:      NewResolver(files),
		defByFileQual: make(map[string]string),
		defsBySimple:  make(map[string][]string),
	}
}

// Assemble consumes every file's normalized facts and produces the final
// Graph. Inputs must be in file-discovery order; that order decides the
// project-wide reference tie-break.
func (a *Assembler) Assemble(inputs []FileFacts) *Graph {
	for _, in := range inputs {
		a.g.ensureFile(in.Path, in.Language, in.LOC)
	}

	// Definitions first: reference matching needs the complete set.
	for _, in := range inputs {
		for _, f := range in.Facts {
			if f.Def != nil {
				a.addDefinition(in.Path, f.Line, f.Def)
			}
		}
	}

	for _, in := range inputs {
		for _, f := range in.Facts {
			switch {
			case f.Import != nil:
				a.addImport(in.Path, in.Language, f.Import)
			case f.Ref != nil:
				a.addReference(in.Path, f.Ref)
			}
		}
	}

	return a.g
}

// addDefinition merges a definition node and links it with a defines edge
// from its file, or from its enclosing container's node when nested.
func (a *Assembler) addDefinition(file string, line int, def *fact.DefFact) {
	node := a.g.upsertDefinition(file, def.QualifiedName, def.Kind, line, def.EndLine)

	qualKey := file + "\x00" + def.QualifiedName
	firstSeen := false
	if _, ok := a.defByFileQual[qualKey]; !ok {
		a.defByFileQual[qualKey] = node.ID
		simple := fact.SimpleName(def.QualifiedName)
		a.defsBySimple[simple] = append(a.defsBySimple[simple], node.ID)
		firstSeen = true
	}

	sourceID := file
	if def.Container != "" {
		if parentID, ok := a.defByFileQual[file+"\x00"+def.Container]; ok {
			sourceID = parentID
		}
	} else if firstSeen {
		fileNode := a.g.files[file]
		fileNode.Definitions = append(fileNode.Definitions, node.ID)
	}
	a.g.addEdge(sourceID, node.ID, EdgeKindDefines)
}

// addImport resolves an import to a project file or, failing that, to the
// shared external-module arena.
func (a *Assembler) addImport(file string, lang fact.Language, imp *fact.ImportFact) {
	if target, ok := a.resolver.Resolve(imp.Module, imp.Level, file, lang); ok {
		if target != file {
			a.g.addEdge(file, target, EdgeKindImports)
		}
		return
	}

	name := imp.Module
	if name == "" {
		name = imp.Name
	}
	ext := a.g.ensureExternal(name)
	a.g.addEdge(file, ext.ID, EdgeKindImports)
}

// addReference links a reference to a definition node: by qualified name
// within the same file first, then project-wide by simple name in discovery
// order. Unmatched references are dropped silently; they usually point at
// external symbols already captured through import edges.
func (a *Assembler) addReference(file string, ref *fact.RefFact) {
	sourceID := file
	if ref.Scope != "" {
		if id, ok := a.defByFileQual[file+"\x00"+ref.Scope]; ok {
			sourceID = id
		}
	}

	name := cleanRefName(ref.Name)

	targetID, ok := a.defByFileQual[file+"\x00"+name]
	if !ok {
		matches := a.defsBySimple[fact.SimpleName(name)]
		if len(matches) == 0 {
			return
		}
		targetID = matches[0]
	}

	if targetID == sourceID {
		return
	}
	a.g.addEdge(sourceID, targetID, EdgeKindReferences)
}

// cleanRefName canonicalizes a reference name: "::" separators become dots
// and leading self/this receivers are dropped.
func cleanRefName(name string) string {
	name = strings.ReplaceAll(name, "::", ".")
	name = strings.TrimPrefix(name, "self.")
	name = strings.TrimPrefix(name, "this.")
	return name
}
