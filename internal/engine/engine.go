package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/seiri-tools/seiri/internal/extract"
	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
)

// Options configure a graph build.
type Options struct {
	// Root is the directory to analyze. Required.
	Root string
	// Languages restricts extraction; empty means all supported languages.
	Languages []fact.Language
	// ExcludeDirs skips directories by name or root-relative path, on top
	// of the built-in skip list.
	ExcludeDirs []string
	// Workers caps parse parallelism; 0 means GOMAXPROCS.
	Workers int
}

// Result is the output of a build: the finished graph plus everything that
// went wrong along the way without stopping it.
type Result struct {
	Graph       *graph.Graph
	Diagnostics []fact.Diagnostic
	Files       int
}

// Build runs the full pipeline: discover source files under opts.Root,
// extract facts from each file in parallel, then resolve and assemble the
// dependency graph. Per-file failures (unreadable files, parse errors,
// malformed facts) are reported as diagnostics; only an unusable root or a
// canceled context fail the build.
func Build(ctx context.Context, opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, errors.New("root directory is required")
	}

	files, err := discoverFiles(opts.Root, opts.Languages, opts.ExcludeDirs)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	parser := extract.NewParser()
	defer parser.Close()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type fileResult struct {
		facts graph.FileFacts
		diags []fact.Diagnostic
	}
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sf := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &results[i]
			res.facts = graph.FileFacts{Path: sf.Path, Language: sf.Language}

			source, err := os.ReadFile(filepath.Join(opts.Root, filepath.FromSlash(sf.Path)))
			if err != nil {
				res.diags = append(res.diags, fact.Diagnostic{
					File:    sf.Path,
					Message: fmt.Sprintf("read failed: %v", err),
				})
				return nil
			}
			res.facts.LOC = countLOC(source)

			raw, err := parser.Parse(gctx, sf.Path, source, sf.Language)
			if err != nil {
				res.diags = append(res.diags, fact.Diagnostic{File: sf.Path, Message: err.Error()})
				return nil
			}

			norm := fact.NewNormalizer()
			res.facts.Facts = norm.NormalizeFile(raw)
			res.diags = append(res.diags, norm.Diagnostics()...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := make([]graph.FileFacts, 0, len(files))
	var diags []fact.Diagnostic
	for _, r := range results {
		inputs = append(inputs, r.facts)
		diags = append(diags, r.diags...)
	}

	asm := graph.NewAssembler(files)
	return &Result{
		Graph:       asm.Assemble(inputs),
		Diagnostics: diags,
		Files:       len(files),
	}, nil
}

// countLOC counts non-blank lines.
func countLOC(source []byte) int {
	n := 0
	for _, line := range bytes.Split(source, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
