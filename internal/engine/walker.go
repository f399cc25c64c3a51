package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

// Directories that never contain first-party sources.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
}

// discoverFiles walks root and returns the source files to analyze, with
// paths slash-separated and relative to root, in sorted order. Patterns from
// a root-level .gitignore are honored, as are caller-supplied directory
// excludes. When languages is non-empty only those languages are kept.
func discoverFiles(root string, languages []fact.Language, excludeDirs []string) ([]graph.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var matcher *ignore.GitIgnore
	if m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		matcher = m
	}

	wanted := make(map[fact.Language]bool, len(languages))
	for _, l := range languages {
		wanted[l] = true
	}

	excluded := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[d] = true
	}

	var files []graph.SourceFile
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if defaultSkipDirs[d.Name()] || excluded[d.Name()] || excluded[rel] {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := fact.LanguageForExt(filepath.Ext(rel))
		if !ok {
			return nil
		}
		if len(wanted) > 0 && !wanted[lang] {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		files = append(files, graph.SourceFile{Path: rel, Language: lang})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
