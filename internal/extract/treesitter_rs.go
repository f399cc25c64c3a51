package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/seiri-tools/seiri/internal/fact"
)

// rsAdapter extracts facts from Rust source files.
type rsAdapter struct{}

func (a *rsAdapter) Extract(root *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var facts []fact.Fact

	cursor := root.Walk()
	defer cursor.Close()

	a.walk(cursor, source, filePath, &facts)
	return facts
}

func (a *rsAdapter) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	facts *[]fact.Fact,
) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_item":
		if f := a.extractFunction(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}

	case "struct_item", "enum_item", "trait_item", "union_item":
		if f := extractNamedDef(node, source, filePath, fact.DefContainer); f != nil {
			*facts = append(*facts, *f)
		}

	case "use_declaration":
		if f := a.extractUse(node, source, filePath); f != nil {
			*facts = append(*facts, *f)
		}

	case "call_expression":
		if f := a.extractCall(node, source, filePath); f != nil {
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

// extractFunction records a function_item, attaching the impl block's type as
// the container for methods. The impl block itself is not a definition, so
// the container is resolved here rather than by the Normalizer's scope stack.
func (a *rsAdapter) extractFunction(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	f := extractNamedDef(node, source, filePath, fact.DefFunction)
	if f == nil {
		return nil
	}
	if implType := enclosingImplType(node, source); implType != "" {
		f.Def.Container = implType
	}
	return f
}

// enclosingImplType walks up to the nearest impl_item and returns its base
// type name, stripping generics ("Store<T>" yields "Store").
func enclosingImplType(node *tree_sitter.Node, source []byte) string {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Kind() != "impl_item" {
			continue
		}
		typeNode := parent.ChildByFieldName("type")
		if typeNode == nil {
			return ""
		}
		name := typeNode.Utf8Text(source)
		if i := strings.IndexByte(name, '<'); i != -1 {
			name = name[:i]
		}
		return name
	}
	return ""
}

// extractUse records a use declaration. "use a::b as c" keeps the alias;
// use-lists and crate/self/super prefixes are normalized downstream.
func (a *rsAdapter) extractUse(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	argNode := node.ChildByFieldName("argument")
	if argNode == nil {
		return nil
	}

	path := argNode.Utf8Text(source)
	alias := ""
	if argNode.Kind() == "use_as_clause" {
		if pathNode := argNode.ChildByFieldName("path"); pathNode != nil {
			path = pathNode.Utf8Text(source)
		}
		if aliasNode := argNode.ChildByFieldName("alias"); aliasNode != nil {
			alias = aliasNode.Utf8Text(source)
		}
	}
	if path == "" {
		return nil
	}

	line, _ := span(node)
	f := fact.Import(filePath, line, "", path, alias, 0)
	return &f
}

func (a *rsAdapter) extractCall(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return nil
	}

	var callee string
	switch fnNode.Kind() {
	case "identifier", "scoped_identifier", "field_expression":
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
