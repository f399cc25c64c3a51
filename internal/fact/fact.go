package fact

// --- Enums ---

// DefKind classifies a definition.
type DefKind string

const (
	DefFunction  DefKind = "function"
	DefContainer DefKind = "container"
)

// RefKind classifies a reference.
type RefKind string

const (
	RefCall         RefKind = "function-call"
	RefContainerUse RefKind = "container-use"
)

// Language identifies a programming language for parsing.
type Language string

const (
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangTypeScript Language = "typescript"
)

// AllLanguages are the languages with full extraction support.
var AllLanguages = []Language{LangGo, LangJavaScript, LangPython, LangRust, LangTypeScript}

// extToLanguage maps file extensions to languages for adapter selection.
var extToLanguage = map[string]Language{
	".go":  LangGo,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".py":  LangPython,
	".rs":  LangRust,
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
}

// LanguageForExt returns the language for a file extension (including the
// leading dot). ok is false for unsupported extensions.
func LanguageForExt(ext string) (Language, bool) {
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// --- Models ---

// Fact is a single raw observation extracted from one file's parse tree.
// Exactly one of Import, Def, or Ref is set. File and Line identify where the
// fact originated (1-based line) and are never mutated after extraction.
type Fact struct {
	File string `json:"file"`
	Line int    `json:"line"`

	Import *ImportFact `json:"import,omitempty"`
	Def    *DefFact    `json:"definition,omitempty"`
	Ref    *RefFact    `json:"reference,omitempty"`
}

// ImportFact records an import statement. Module is the dotted module path
// and Name the imported symbol ("from module import name" keeps both; plain
// imports set only Name until normalization). Level 0 means absolute,
// 1 same directory, 2 parent, and so on.
type ImportFact struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Alias  string `json:"alias,omitempty"`
	Level  int    `json:"level"`
}

// DefFact records a function or container definition. Container is the
// dot-joined chain of enclosing containers and QualifiedName the full
// container-qualified name; both are filled in by the Normalizer. EndLine
// closes the definition's source span.
type DefFact struct {
	Kind          DefKind `json:"kind"`
	Name          string  `json:"name"`
	Container     string  `json:"container,omitempty"`
	QualifiedName string  `json:"qualified_name,omitempty"`
	EndLine       int     `json:"end_line"`
}

// RefFact records a call or container use. Scope is the qualified name of
// the enclosing definition, filled in by the Normalizer.
type RefFact struct {
	Kind  RefKind `json:"kind"`
	Name  string  `json:"name"`
	Scope string  `json:"scope,omitempty"`
}

// Import builds a raw import fact.
func Import(file string, line int, module, name, alias string, level int) Fact {
	return Fact{File: file, Line: line, Import: &ImportFact{Module: module, Name: name, Alias: alias, Level: level}}
}

// Definition builds a raw definition fact spanning [line, endLine].
func Definition(file string, kind DefKind, name string, line, endLine int) Fact {
	return Fact{File: file, Line: line, Def: &DefFact{Kind: kind, Name: name, EndLine: endLine}}
}

// Reference builds a raw reference fact.
func Reference(file string, kind RefKind, name string, line int) Fact {
	return Fact{File: file, Line: line, Ref: &RefFact{Kind: kind, Name: name}}
}

// SimpleName returns the last segment of a qualified name. Both "." and "::"
// separators are understood, so it works on reference names from any adapter.
func SimpleName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' || qualified[i] == ':' {
			return qualified[i+1:]
		}
	}
	return qualified
}

// Diagnostic records a per-file, non-fatal problem (parse failure, dropped
// fact). Diagnostics never block graph production.
type Diagnostic struct {
	File    string `json:"file"`
	Message string `json:"message"`
}
