package fact

import (
	"testing"
)

// --- Canonical module paths ---

func TestCanonicalModule(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		wantLevel int
	}{
		{"absolute dotted", "os.path", "os.path", 0},
		{"python same dir", ".sibling", "sibling", 1},
		{"python parent", "..pkg.mod", "pkg.mod", 2},
		{"python bare dot", ".", "", 1},
		{"js same dir", "./utils", "utils", 1},
		{"js parent", "../lib/helpers", "lib.helpers", 2},
		{"js double parent", "../../core", "core", 3},
		{"rust crate root", "crate::parser::lexer", "parser.lexer", 0},
		{"rust self", "self::detail", "detail", 1},
		{"rust super", "super::shared", "shared", 2},
		{"rust double super", "super::super::shared", "shared", 3},
		{"rust bare super", "super", "", 2},
		{"rust use list", "std::collections::{HashMap, HashSet}", "std.collections", 0},
		{"rust wildcard", "util::*", "util", 0},
		{"module named supervisor", "supervisor", "supervisor", 0},
		{"slash separated", "a/b/c", "a.b.c", 0},
		{"empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, level := CanonicalModule(tt.raw)
			if got != tt.want || level != tt.wantLevel {
				t.Errorf("CanonicalModule(%q) = (%q, %d), want (%q, %d)",
					tt.raw, got, level, tt.want, tt.wantLevel)
			}
		})
	}
}

// --- Scope qualification ---

func TestNormalizeFile_NestedScopes(t *testing.T) {
	n := NewNormalizer()
	out := n.NormalizeFile([]Fact{
		Definition("a.py", DefContainer, "Widget", 1, 10),
		Definition("a.py", DefFunction, "render", 2, 5),
		Reference("a.py", RefCall, "draw", 3),
		Definition("a.py", DefFunction, "resize", 7, 9),
		Definition("a.py", DefFunction, "main", 12, 15),
	})

	if len(out) != 5 {
		t.Fatalf("got %d facts, want 5", len(out))
	}

	wantQualified := []string{"Widget", "Widget.render", "", "Widget.resize", "main"}
	for i, f := range out {
		if f.Def == nil {
			continue
		}
		if f.Def.QualifiedName != wantQualified[i] {
			t.Errorf("fact %d: QualifiedName = %q, want %q", i, f.Def.QualifiedName, wantQualified[i])
		}
	}

	if ref := out[2].Ref; ref == nil || ref.Scope != "Widget.render" {
		t.Errorf("reference scope = %+v, want Widget.render", out[2].Ref)
	}
	if len(n.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", n.Diagnostics())
	}
}

func TestNormalize_AdapterContainerWins(t *testing.T) {
	n := NewNormalizer()
	f := Definition("server.go", DefFunction, "Close", 20, 24)
	f.Def.Container = "Server"

	out, ok := n.Normalize(f)
	if !ok {
		t.Fatal("expected fact to survive")
	}
	if out.Def.QualifiedName != "Server.Close" {
		t.Errorf("QualifiedName = %q, want Server.Close", out.Def.QualifiedName)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer()
	first := n.NormalizeFile([]Fact{
		Import("a.py", 1, "pkg", "helper", "", 0),
		// "from . import c": the module stays empty once the level is set,
		// and a re-run must not promote the imported name into the module.
		Import("a/b.py", 2, ".", "c", "", 0),
		Import("src/lib.rs", 3, "super::shared", "", "", 0),
		Definition("a.py", DefContainer, "App", 5, 10),
		Definition("a.py", DefFunction, "run", 6, 9),
	})

	second := NewNormalizer().NormalizeFile(first)
	if len(second) != len(first) {
		t.Fatalf("got %d facts on re-run, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Def != nil && *first[i].Def != *second[i].Def {
			t.Errorf("fact %d changed on re-run: %+v vs %+v", i, *first[i].Def, *second[i].Def)
		}
		if first[i].Import != nil && *first[i].Import != *second[i].Import {
			t.Errorf("fact %d changed on re-run: %+v vs %+v", i, *first[i].Import, *second[i].Import)
		}
	}
}

func TestNormalizeFile_ResetsScopesBetweenFiles(t *testing.T) {
	n := NewNormalizer()
	n.NormalizeFile([]Fact{
		Definition("a.py", DefContainer, "Outer", 1, 100),
	})
	out := n.NormalizeFile([]Fact{
		Definition("b.py", DefFunction, "top", 2, 4),
	})

	if out[0].Def.QualifiedName != "top" {
		t.Errorf("QualifiedName = %q, want top (scope leaked across files)", out[0].Def.QualifiedName)
	}
}

// --- Malformed facts ---

func TestNormalize_DropsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   Fact
	}{
		{"empty import", Import("a.py", 1, "", "", "", 0)},
		{"unnamed def", Definition("a.py", DefFunction, "", 2, 4)},
		{"unnamed ref", Reference("a.py", RefCall, "", 3)},
		{"no payload", Fact{File: "a.py", Line: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer()
			_, ok := n.Normalize(tt.in)
			if ok {
				t.Fatal("expected fact to be dropped")
			}
			diags := n.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(diags))
			}
			if diags[0].File != "a.py" {
				t.Errorf("diagnostic file = %q, want a.py", diags[0].File)
			}
		})
	}
}

func TestNormalize_ImportLevels(t *testing.T) {
	tests := []struct {
		name       string
		module     string
		importName string
		level      int
		wantModule string
		wantLevel  int
	}{
		{"python from-import relative", "..core", "engine", 0, "core", 2},
		{"plain import uses name", "", "json", 0, "json", 0},
		{"adapter level preserved", "utils", "", 1, "utils", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer()
			out, ok := n.Normalize(Import("a.py", 1, tt.module, tt.importName, "", tt.level))
			if !ok {
				t.Fatal("expected import to survive")
			}
			if out.Import.Module != tt.wantModule || out.Import.Level != tt.wantLevel {
				t.Errorf("got (%q, %d), want (%q, %d)",
					out.Import.Module, out.Import.Level, tt.wantModule, tt.wantLevel)
			}
		})
	}
}
