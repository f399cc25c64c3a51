package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/seiri-tools/seiri/internal/fact"
)

// goAdapter extracts facts from Go source files.
type goAdapter struct{}

func (a *goAdapter) Extract(root *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var facts []fact.Fact

	cursor := root.Walk()
	defer cursor.Close()

	a.walk(cursor, source, filePath, &facts)
	return facts
}

func (a *goAdapter) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	facts *[]fact.Fact,
) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_declaration":
		if f := extractNamedDef(node, source, filePath, fact.DefFunction); f != nil {
			*facts = append(*facts, *f)
		}

	case "method_declaration":
		if f := a.extractMethod(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}

	case "type_declaration":
		*facts = append(*facts, a.extractTypeDeclaration(node, source, filePath)...)

	case "import_spec":
		if f := a.extractImport(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}

	case "call_expression":
		if f := a.extractCall(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}

	case "composite_literal":
		if f := a.extractCompositeLiteral(node, source, filePath); f != nil {
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

// extractMethod records a method as a function definition whose enclosing
// container is the receiver's base type. Go methods are not lexically nested
// in their type, so the container is attached here instead of relying on the
// Normalizer's scope stack.
func (a *goAdapter) extractMethod(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := span(node)
	f := fact.Definition(filePath, fact.DefFunction, nameNode.Utf8Text(source), start, end)
	if recv := node.ChildByFieldName("receiver"); recv != nil {
		f.Def.Container = receiverType(recv, source)
	}
	return &f
}

// receiverType extracts the base type name from a receiver parameter_list,
// stripping pointers and type parameters ("*Store[T]" yields "Store").
func receiverType(recv *tree_sitter.Node, source []byte) string {
	text := recv.Utf8Text(source)
	text = strings.Trim(text, "()")
	if i := strings.LastIndexByte(text, ' '); i != -1 {
		text = text[i+1:]
	}
	text = strings.TrimLeft(text, "*")
	if i := strings.IndexByte(text, '['); i != -1 {
		text = text[:i]
	}
	return text
}

// extractTypeDeclaration records struct and interface type_specs as
// containers. Aliases and other type forms carry no definition facts.
func (a *goAdapter) extractTypeDeclaration(node *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var out []fact.Fact

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "type_spec" {
			continue
		}
		typeNode := child.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		switch typeNode.Kind() {
		case "struct_type", "interface_type":
			if f := extractNamedDef(child, source, filePath, fact.DefContainer); f != nil {
				out = append(out, *f)
			}
		}
	}
	return out
}

func (a *goAdapter) extractImport(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	pathNode := node.ChildByFieldName("path")
	if pathNode == nil {
		return nil
	}
	importPath := strings.Trim(pathNode.Utf8Text(source), "\"`")
	if importPath == "" {
		return nil
	}

	alias := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		alias = nameNode.Utf8Text(source)
	}

	line, _ := span(node)
	f := fact.Import(filePath, line, "", importPath, alias, 0)
	return &f
}

func (a *goAdapter) extractCall(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return nil
	}

	var callee string
	switch fnNode.Kind() {
	case "identifier", "selector_expression":
		callee = fnNode.Utf8Text(source)
	default:
		return nil
	}
	if callee == "" {
		return nil
	}

	line, _ := span(node)
	f := fact.Reference(filePath, fact.RefCall, callee, line)
	return &f
}

// extractCompositeLiteral records "T{...}" as a container use.
func (a *goAdapter) extractCompositeLiteral(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}

	var name string
	switch typeNode.Kind() {
	case "type_identifier", "qualified_type":
		name = typeNode.Utf8Text(source)
	default:
		return nil
	}
	if name == "" {
		return nil
	}

	line, _ := span(node)
	f := fact.Reference(filePath, fact.RefContainerUse, name, line)
	return &f
}
