package fact

import (
	"fmt"
	"strings"
)

// Normalizer maps raw per-language Facts into the shared schema: canonical
// dotted module paths and relative levels for imports, container-qualified
// names for definitions, and enclosing scopes for references.
//
// Qualification uses an explicit scope stack keyed on definition spans:
// a definition fact pushes its qualified name, and any entry whose span has
// ended before the current fact's line is popped first. This relies on facts
// arriving in source order within a file, which adapters guarantee.
//
// Normalizing an already-normalized fact is a no-op, so a fact stream can be
// re-run through a Normalizer safely.
type Normalizer struct {
	scopes []scopeEntry
	diags  []Diagnostic
}

type scopeEntry struct {
	qualified string
	endLine   int
}

// NewNormalizer returns a Normalizer with an empty scope stack.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeFile normalizes one file's facts in source order. Malformed facts
// are dropped and recorded as diagnostics. The scope stack is reset first, so
// one Normalizer may process files back to back.
func (n *Normalizer) NormalizeFile(facts []Fact) []Fact {
	n.scopes = n.scopes[:0]
	out := make([]Fact, 0, len(facts))
	for _, f := range facts {
		if nf, ok := n.Normalize(f); ok {
			out = append(out, nf)
		}
	}
	return out
}

// Normalize maps one raw fact to zero or one normalized fact. The boolean is
// false when the fact was malformed and dropped. Import, Def, and Ref
// payloads are copied before mutation, so callers keep ownership of the
// input fact.
func (n *Normalizer) Normalize(f Fact) (Fact, bool) {
	n.popEnded(f.Line)

	switch {
	case f.Import != nil:
		imp := *f.Import
		raw := imp.Module
		if raw == "" && imp.Level == 0 {
			// Some adapters only fill Name for plain imports. A bare relative
			// import ("from . import x") legitimately has an empty module, so
			// the fallback must not apply once a level is set.
			raw = imp.Name
		}
		module, level := CanonicalModule(raw)
		if level == 0 {
			level = imp.Level
		}
		if module == "" && level == 0 {
			n.drop(f.File, fmt.Sprintf("line %d: dropped import with empty module name", f.Line))
			return Fact{}, false
		}
		imp.Module = module
		imp.Level = level
		if imp.Name == "" {
			imp.Name = module
		}
		f.Import = &imp
		return f, true

	case f.Def != nil:
		def := *f.Def
		if def.Name == "" {
			n.drop(f.File, fmt.Sprintf("line %d: dropped unnamed %s definition", f.Line, def.Kind))
			return Fact{}, false
		}
		if def.QualifiedName == "" {
			// Adapters may pre-fill Container for languages where the
			// enclosing container is not lexically enclosing (Go methods,
			// Rust impl blocks); otherwise the scope stack decides.
			if def.Container == "" {
				def.Container = n.currentScope()
			}
			def.QualifiedName = def.Name
			if def.Container != "" {
				def.QualifiedName = def.Container + "." + def.Name
			}
		}
		n.scopes = append(n.scopes, scopeEntry{qualified: def.QualifiedName, endLine: def.EndLine})
		f.Def = &def
		return f, true

	case f.Ref != nil:
		ref := *f.Ref
		if ref.Name == "" {
			n.drop(f.File, fmt.Sprintf("line %d: dropped unnamed reference", f.Line))
			return Fact{}, false
		}
		if ref.Scope == "" {
			ref.Scope = n.currentScope()
		}
		f.Ref = &ref
		return f, true
	}

	n.drop(f.File, fmt.Sprintf("line %d: dropped fact with no payload", f.Line))
	return Fact{}, false
}

// Diagnostics returns the facts dropped so far as (file, message) pairs.
func (n *Normalizer) Diagnostics() []Diagnostic {
	return n.diags
}

func (n *Normalizer) drop(file, msg string) {
	n.diags = append(n.diags, Diagnostic{File: file, Message: msg})
}

func (n *Normalizer) currentScope() string {
	if len(n.scopes) == 0 {
		return ""
	}
	return n.scopes[len(n.scopes)-1].qualified
}

// popEnded removes scope entries whose span closed before line.
func (n *Normalizer) popEnded(line int) {
	for len(n.scopes) > 0 && line > n.scopes[len(n.scopes)-1].endLine {
		n.scopes = n.scopes[:len(n.scopes)-1]
	}
}

// CanonicalModule converts a raw, language-flavored import specifier into a
// dotted module path plus a relative level (0 = absolute, 1 = same directory,
// 2 = parent, and so on). It understands Python leading dots, JS/TS "./" and
// "../" prefixes, and Rust "crate::" / "self::" / "super::" paths, and
// translates "/" and "::" separators to ".". Canonical input passes through
// unchanged with level 0.
func CanonicalModule(raw string) (string, int) {
	s := strings.TrimSpace(raw)

	// Rust use-lists and wildcards name a parent module, not a file.
	if i := strings.Index(s, "::{"); i != -1 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "::*")

	level := 0
	switch {
	case strings.HasPrefix(s, "./"):
		level = 1
		s = s[2:]
	case strings.HasPrefix(s, "../"):
		level = 1
		for strings.HasPrefix(s, "../") {
			level++
			s = s[3:]
		}
	case strings.HasPrefix(s, "."):
		for strings.HasPrefix(s, ".") {
			level++
			s = s[1:]
		}
	case s == "self" || strings.HasPrefix(s, "self::"):
		level = 1
		s = strings.TrimPrefix(strings.TrimPrefix(s, "self"), "::")
	case s == "super" || strings.HasPrefix(s, "super::"):
		level = 1
		for s == "super" || strings.HasPrefix(s, "super::") {
			level++
			s = strings.TrimPrefix(strings.TrimPrefix(s, "super"), "::")
		}
	case s == "crate" || strings.HasPrefix(s, "crate::"):
		s = strings.TrimPrefix(strings.TrimPrefix(s, "crate"), "::")
	}

	s = strings.ReplaceAll(s, "::", ".")
	s = strings.ReplaceAll(s, "/", ".")
	s = strings.Trim(s, ".")
	return s, level
}
