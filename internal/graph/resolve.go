package graph

import (
	"path"
	"sort"
	"strings"

	"github.com/seiri-tools/seiri/internal/fact"
)

// Resolver maps normalized import facts onto concrete project files. It is
// built once per run from the complete discovered file set and is read-only
// afterwards, so concurrent lookups need no locking.
//
// Resolution runs in two steps. Relative imports (level > 0) walk up from the
// importing file's directory and probe language-specific extensions. Absolute
// imports (and relative misses) are matched against an index of dotted module
// paths derived from each file's project-relative path. When several files
// match the same module name, the one whose directory is nearest the
// importing file wins; remaining ties break by lexicographic path order so
// repeated runs always pick the same file.
type Resolver struct {
	fileSet map[string]bool
	byLang  map[fact.Language][]indexEntry
}

// indexEntry is one file with its dotted module keys. A file usually has one
// key (its path with the extension stripped); package anchors (__init__.py,
// mod.rs, index.ts) and Go files additionally carry their directory's key.
type indexEntry struct {
	path string
	dir  string
	keys []string
}

// packageAnchors are file stems that represent their whole directory.
var packageAnchors = map[string]bool{
	"__init__": true,
	"mod":      true,
	"index":    true,
}

// probeExtensions lists, per language, the suffixes tried when probing a
// relative import target.
var probeExtensions = map[fact.Language][]string{
	fact.LangPython:     {".py", "/__init__.py"},
	fact.LangJavaScript: {".js", ".jsx", ".mjs", "/index.js", "/index.jsx"},
	fact.LangTypeScript: {".ts", ".tsx", ".js", "/index.ts", "/index.tsx", "/index.js"},
	fact.LangRust:       {".rs", "/mod.rs"},
	fact.LangGo:         {".go"},
}

// NewResolver indexes the discovered file set. Paths must be slash-separated
// and relative to the project root.
func NewResolver(files []SourceFile) *Resolver {
	r := &Resolver{
		fileSet: make(map[string]bool, len(files)),
		byLang:  make(map[fact.Language][]indexEntry),
	}

	for _, f := range files {
		r.fileSet[f.Path] = true

		stem := strings.TrimSuffix(f.Path, path.Ext(f.Path))
		dir := path.Dir(f.Path)

		keys := []string{dotted(stem)}
		if packageAnchors[path.Base(stem)] || f.Language == fact.LangGo {
			if dirKey := dotted(dir); dirKey != "" {
				keys = append(keys, dirKey)
			}
		}

		r.byLang[f.Language] = append(r.byLang[f.Language], indexEntry{
			path: f.Path,
			dir:  dir,
			keys: keys,
		})
	}

	return r
}

// Resolve maps one normalized import to a project file path. ok is false when
// the import is external to the project.
func (r *Resolver) Resolve(module string, level int, fromFile string, lang fact.Language) (string, bool) {
	if level > 0 {
		if resolved, ok := r.resolveRelative(module, level, fromFile, lang); ok {
			return resolved, true
		}
	}
	return r.resolveAbsolute(module, fromFile, lang)
}

// resolveRelative walks up (level - 1) directories from the importing file,
// appends the module's path segments, and probes the language's extensions.
// An empty module (a bare "from . import x") probes the directory itself.
func (r *Resolver) resolveRelative(module string, level int, fromFile string, lang fact.Language) (string, bool) {
	baseDir := path.Dir(fromFile)
	for i := 1; i < level; i++ {
		baseDir = path.Dir(baseDir)
	}

	if module == "" {
		return r.probeDir(baseDir, lang)
	}

	base := path.Join(baseDir, strings.ReplaceAll(module, ".", "/"))
	return r.probeFile(base, probeExtensions[lang])
}

// resolveAbsolute searches the module index of the importing file's language.
func (r *Resolver) resolveAbsolute(module string, fromFile string, lang fact.Language) (string, bool) {
	if module == "" {
		return "", false
	}
	impSegs := strings.Split(module, ".")
	// Only Go import paths carry a module prefix the tree lacks; for the
	// other languages a key shorter than the import would let a shallow file
	// capture dotted stdlib imports ("os.path" vs a root-level path.py).
	allowModulePrefix := lang == fact.LangGo

	var candidates []indexEntry
	for _, entry := range r.byLang[lang] {
		if entry.path == fromFile {
			continue
		}
		for _, key := range entry.keys {
			if segmentsMatch(impSegs, strings.Split(key, "."), allowModulePrefix) {
				candidates = append(candidates, entry)
				break
			}
		}
	}

	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0].path, true
	}

	fromDir := path.Dir(fromFile)
	sort.Slice(candidates, func(i, j int) bool {
		di := dirDistance(fromDir, candidates[i].dir)
		dj := dirDistance(fromDir, candidates[j].dir)
		if di != dj {
			return di < dj
		}
		return candidates[i].path < candidates[j].path
	})
	return candidates[0].path, true
}

// probeFile checks basePath with each extension appended against the known
// file set. No filesystem I/O.
func (r *Resolver) probeFile(basePath string, extensions []string) (string, bool) {
	if r.fileSet[basePath] {
		return basePath, true
	}
	for _, ext := range extensions {
		candidate := basePath + ext
		if r.fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// probeDir resolves a directory import to its package anchor file.
func (r *Resolver) probeDir(dir string, lang fact.Language) (string, bool) {
	var anchors []string
	switch lang {
	case fact.LangPython:
		anchors = []string{"__init__.py"}
	case fact.LangRust:
		anchors = []string{"mod.rs"}
	case fact.LangJavaScript:
		anchors = []string{"index.js", "index.jsx"}
	case fact.LangTypeScript:
		anchors = []string{"index.ts", "index.tsx", "index.js"}
	default:
		return "", false
	}
	for _, a := range anchors {
		candidate := path.Join(dir, a)
		if r.fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// segmentsMatch reports whether the import's segments are a suffix of the
// key's, so an import may omit a prefix the layout has (a src/ root). With
// allowModulePrefix the reverse also matches, for import paths that carry a
// module prefix the tree lacks.
func segmentsMatch(imp, key []string, allowModulePrefix bool) bool {
	if len(imp) == 0 || len(key) == 0 {
		return false
	}
	if len(imp) > len(key) && !allowModulePrefix {
		return false
	}
	short, long := imp, key
	if len(short) > len(long) {
		short, long = long, short
	}
	offset := len(long) - len(short)
	for i := range short {
		if short[i] != long[offset+i] {
			return false
		}
	}
	return true
}

// dirDistance counts the path segments separating two directories: steps up
// from a to the common ancestor plus steps down to b.
func dirDistance(a, b string) int {
	if a == b {
		return 0
	}
	as := splitDir(a)
	bs := splitDir(b)
	common := 0
	for common < len(as) && common < len(bs) && as[common] == bs[common] {
		common++
	}
	return (len(as) - common) + (len(bs) - common)
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

// dotted converts a slash path to a dotted module key.
func dotted(p string) string {
	if p == "." || p == "" {
		return ""
	}
	return strings.ReplaceAll(p, "/", ".")
}
