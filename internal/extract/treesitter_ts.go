package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/seiri-tools/seiri/internal/fact"
)

// tsAdapter extracts facts from TypeScript source files. It shares the
// import, arrow-function, and call helpers with the JS adapter and adds the
// TypeScript-only container forms.
type tsAdapter struct{}

func (a *tsAdapter) Extract(root *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var facts []fact.Fact

	cursor := root.Walk()
	defer cursor.Close()

	a.walk(cursor, source, filePath, &facts)
	return facts
}

func (a *tsAdapter) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	facts *[]fact.Fact,
) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		if f := extractNamedDef(node, source, filePath, fact.DefFunction); f != nil {
			*facts = append(*facts, *f)
		}

	case "method_definition":
		if f := extractNamedDef(node, source, filePath, fact.DefFunction); f != nil {
			*facts = append(*facts, *f)
		}

	case "class_declaration", "abstract_class_declaration", "interface_declaration", "enum_declaration":
		if f := extractNamedDef(node, source, filePath, fact.DefContainer); f != nil {
			*facts = append(*facts, *f)
		}

	case "lexical_declaration", "variable_declaration":
		*facts = append(*facts, extractArrowFunctions(node, source, filePath)...)

	case "import_statement":
		if f := extractModuleImport(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}

	case "call_expression", "new_expression":
		if f := extractJSCall(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}
	}

	if cursor.GotoFirstChild() {
		a.walk(cursor, source, filePath, facts)
		for cursor.GotoNextSibling() {
			a.walk(cursor, source, filePath, facts)
		}
		cursor.GotoParent()
	}
}
