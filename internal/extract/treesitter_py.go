package extract

import (
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/seiri-tools/seiri/internal/fact"
)

// pyAdapter extracts facts from Python source files.
type pyAdapter struct{}

func (a *pyAdapter) Extract(root *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var facts []fact.Fact

	cursor := root.Walk()
	defer cursor.Close()

	a.walk(cursor, source, filePath, &facts)
	return facts
}

func (a *pyAdapter) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	facts *[]fact.Fact,
) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_definition":
		if f := extractNamedDef(node, source, filePath, fact.DefFunction); f != nil {
			*facts = append(*facts, *f)
		}

	case "class_definition":
		if f := extractNamedDef(node, source, filePath, fact.DefContainer); f != nil {
			*facts = append(*facts, *f)
		}

	case "import_statement":
		*facts = append(*facts, a.extractImport(node, source, filePath)...)

	case "import_from_statement":
		*facts = append(*facts, a.extractFromImport(node, source, filePath)...)

	case "call":
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

// extractImport handles "import a.b" and "import a.b as c".
func (a *pyAdapter) extractImport(node *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	var facts []fact.Fact
	line, _ := span(node)

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			if name := child.Utf8Text(source); name != "" {
				facts = append(facts, fact.Import(filePath, line, "", name, "", 0))
			}
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			alias := ""
			if aliasNode != nil {
				alias = aliasNode.Utf8Text(source)
			}
			facts = append(facts, fact.Import(filePath, line, "", nameNode.Utf8Text(source), alias, 0))
		}
	}
	return facts
}

// extractFromImport handles "from .mod import name as alias". The module text
// keeps its leading dots; the Normalizer turns them into a relative level.
func (a *pyAdapter) extractFromImport(node *tree_sitter.Node, source []byte, filePath string) []fact.Fact {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return nil
	}
	module := moduleNode.Utf8Text(source)
	if module == "" {
		return nil
	}
	line, _ := span(node)

	var facts []fact.Fact
	// Children after the "import" keyword are the imported names.
	seenImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "import" {
			seenImport = true
			continue
		}
		if !seenImport {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			facts = append(facts, fact.Import(filePath, line, module, child.Utf8Text(source), "", 0))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			alias := ""
			if aliasNode != nil {
				alias = aliasNode.Utf8Text(source)
			}
			facts = append(facts, fact.Import(filePath, line, module, nameNode.Utf8Text(source), alias, 0))
		case "wildcard_import":
			facts = append(facts, fact.Import(filePath, line, module, "*", "", 0))
		}
	}

	if len(facts) == 0 {
		facts = append(facts, fact.Import(filePath, line, module, "", "", 0))
	}
	return facts
}

func (a *pyAdapter) extractCall(node *tree_sitter.Node, source []byte, filePath string) *fact.Fact {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return nil
	}

	var callee string
	switch fnNode.Kind() {
	case "identifier", "attribute":
		callee = fnNode.Utf8Text(source)
	default:
		return nil
	}
	if callee == "" {
		return nil
	}

	line, _ := span(node)
	// Capitalized bare names are almost always class instantiations.
	kind := fact.RefCall
	if fnNode.Kind() == "identifier" && startsUpper(callee) {
		kind = fact.RefContainerUse
	}
	f := fact.Reference(filePath, kind, callee, line)
	return &f
}

// extractNamedDef builds a definition fact from any node with a "name" field.
// Shared by the Python, JS, and TS adapters.
func extractNamedDef(node *tree_sitter.Node, source []byte, filePath string, kind fact.DefKind) *fact.Fact {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Utf8Text(source)
	start, end := span(node)
	f := fact.Definition(filePath, kind, name, start, end)
	return &f
}

// startsUpper reports whether the first rune of name is an uppercase letter.
func startsUpper(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
