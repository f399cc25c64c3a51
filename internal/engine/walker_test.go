package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

func discoveredPaths(files []graph.SourceFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func TestDiscoverFiles_SortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.py", "pass\n")
	writeFile(t, root, "a/b.py", "pass\n")
	writeFile(t, root, "readme.md", "# notes\n")
	writeFile(t, root, "a/c.rs", "fn c() {}\n")

	files, err := discoverFiles(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b.py", "a/c.rs", "z.py"}, discoveredPaths(files))
	assert.Equal(t, fact.LangRust, files[1].Language)
}

func TestDiscoverFiles_DefaultSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", "pass\n")
	writeFile(t, root, "node_modules/lib.js", "var x;\n")
	writeFile(t, root, "__pycache__/keep.py", "pass\n")
	writeFile(t, root, ".git/hook.py", "pass\n")

	files, err := discoverFiles(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.py"}, discoveredPaths(files))
}

func TestDiscoverFiles_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\nsecret.py\n")
	writeFile(t, root, "keep.py", "pass\n")
	writeFile(t, root, "secret.py", "pass\n")
	writeFile(t, root, "generated/out.py", "pass\n")

	files, err := discoverFiles(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.py"}, discoveredPaths(files))
}

func TestDiscoverFiles_ExcludeDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.py", "pass\n")
	writeFile(t, root, "examples/demo.py", "pass\n")
	writeFile(t, root, "src/gen/out.py", "pass\n")

	files, err := discoverFiles(root, nil, []string{"examples", "src/gen"})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.py"}, discoveredPaths(files))
}

func TestDiscoverFiles_LanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "pass\n")
	writeFile(t, root, "b.ts", "let x = 1;\n")
	writeFile(t, root, "c.go", "package c\n")

	files, err := discoverFiles(root, []fact.Language{fact.LangGo, fact.LangTypeScript}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"b.ts", "c.go"}, discoveredPaths(files))
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	_, err := discoverFiles(t.TempDir()+"/absent", nil, nil)
	assert.Error(t, err)
}
