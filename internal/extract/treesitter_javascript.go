package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/seiri-tools/seiri/internal/fact"
)

// jsAdapter extracts facts from JavaScript source files.
type jsAdapter struct{}

func (a *jsAdapter) Extract(root *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var facts []fact.Fact

	cursor := root.Walk()
	defer cursor.Close()

	a.walk(cursor, source, filePath, &facts)
	return facts
}

func (a *jsAdapter) walk(
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

	case "class_declaration":
		if f := extractNamedDef(node, source, filePath, fact.DefContainer); f != nil {
			*facts = append(*facts, *f)
		}

	case "method_definition":
		if f := extractNamedDef(node, source, filePath, fact.DefFunction); f != nil {
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

// extractArrowFunctions records "const foo = () => {}" declarators as function
// definitions. Shared by the JS and TS adapters.
func extractArrowFunctions(node *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var out []fact.Fact

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		valueNode := child.ChildByFieldName("value")
		if valueNode == nil {
			continue
		}
		switch valueNode.Kind() {
		case "arrow_function", "function_expression":
		default:
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		start, end := span(child)
		out = append(out, fact.Definition(filePath, fact.DefFunction, nameNode.Utf8Text(source), start, end))
	}
	return out
}

// extractModuleImport records the source specifier of an import statement.
// A default-import binding, when present, becomes the alias. Shared by the
// JS and TS adapters.
func extractModuleImport(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil
	}
	importPath := strings.Trim(sourceNode.Utf8Text(source), "\"'`")
	if importPath == "" {
		return nil
	}

	alias := ""
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "import_clause" {
			for j := uint(0); j < child.ChildCount(); j++ {
				if c := child.Child(j); c != nil && c.Kind() == "identifier" {
					alias = c.Utf8Text(source)
					break
				}
			}
			break
		}
	}

	line, _ := span(node)
	f := fact.Import(filePath, line, "", importPath, alias, 0)
	return &f
}

// extractJSCall records a call or constructor use. Capitalized bare callees
// and new-expressions count as container uses. Shared by the JS and TS
// adapters.
func extractJSCall(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		fnNode = node.ChildByFieldName("constructor")
	}
	if fnNode == nil {
		return nil
	}

	var callee string
	switch fnNode.Kind() {
	case "identifier", "member_expression":
		callee = fnNode.Utf8Text(source)
	default:
		return nil
	}
	if callee == "" {
		return nil
	}

	kind := fact.RefCall
	if node.Kind() == "new_expression" || (fnNode.Kind() == "identifier" && startsUpper(callee)) {
		kind = fact.RefContainerUse
	}

	line, _ := span(node)
	f := fact.Reference(filePath, kind, callee, line)
	return &f
}
