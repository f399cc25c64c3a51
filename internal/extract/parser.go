package extract

import (
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/seiri-tools/seiri/internal/fact"
)

// adapter extracts raw facts from a parsed tree-sitter AST. Adapters hold no
// cross-file state: one call sees one file's tree and source text, so a
// changed file can be re-extracted without touching any other file.
type adapter interface {
	Extract(root *tree_sitter.Node, source []byte, filePath string) []fact.Fact
}

// ParseError reports that a grammar could not parse a file. The file still
// contributes a FileNode with no definitions; extraction of other files is
// unaffected.
type ParseError struct {
	Path string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Msg)
}

// Parser turns a single file's source text into a sequence of raw Facts.
// One adapter is registered per language; a new tree-sitter parser is created
// per Parse call, so Parser is safe for concurrent use across goroutines.
type Parser struct {
	languages map[fact.Language]*tree_sitter.Language
	adapters  map[fact.Language]adapter
}

// NewParser creates a Parser with Go, JavaScript, Python, Rust, and
// TypeScript grammars registered.
func NewParser() *Parser {
	langs := map[fact.Language]*tree_sitter.Language{
		fact.LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
		fact.LangJavaScript: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
		fact.LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
		fact.LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		fact.LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	}

	adapters := map[fact.Language]adapter{
		fact.LangGo:         &goAdapter{},
		fact.LangJavaScript: &jsAdapter{},
		fact.LangPython:     &pyAdapter{},
		fact.LangRust:       &rsAdapter{},
		fact.LangTypeScript: &tsAdapter{},
	}

	return &Parser{
		languages: langs,
		adapters:  adapters,
	}
}

// Parse extracts raw facts from a single source file in source order.
// It returns a *ParseError when the grammar cannot handle the file.
func (p *Parser) Parse(_ context.Context, path string, source []byte, lang fact.Language) ([]fact.Fact, error) {
	tsLang, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	ad, ok := p.adapters[lang]
	if !ok {
		return nil, fmt.Errorf("no adapter for language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Msg: "tree-sitter returned nil tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Msg: fmt.Sprintf("syntax error (grammar: %s)", lang)}
	}

	return ad.Extract(root, source, path), nil
}

// SupportedLanguages returns the languages this parser can handle.
func (p *Parser) SupportedLanguages() []fact.Language {
	langs := make([]fact.Language, 0, len(p.languages))
	for l := range p.languages {
		langs = append(langs, l)
	}
	return langs
}

// Close is a no-op because parsers are created per Parse call.
func (p *Parser) Close() error {
	return nil
}

// span returns the 1-based start and end lines of a node.
func span(node *tree_sitter.Node) (int, int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}
