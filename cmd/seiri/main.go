package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/seiri-tools/seiri/internal/config"
	"github.com/seiri-tools/seiri/internal/engine"
	"github.com/seiri-tools/seiri/internal/export"
	"github.com/seiri-tools/seiri/internal/fact"
	"github.com/seiri-tools/seiri/internal/graph"
	"github.com/seiri-tools/seiri/internal/mcptools"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Root      string
	Format    string
	Output    string
	Database  string
	Languages string
	Exclude   string
	Workers   int
	Verbose   bool
	ServeMCP  bool
	MCPAddr   string
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("seiri", flag.ContinueOnError)
	fs.StringVar(&flags.Root, "root", ".", "path to the project to analyze")
	fs.StringVar(&flags.Format, "format", "", "output format: json, mermaid, text, svg (default: text)")
	fs.StringVar(&flags.Output, "o", "", "write output to file instead of stdout")
	fs.StringVar(&flags.Database, "db", "", "persist the graph to a SQLite database at this path")
	fs.StringVar(&flags.Languages, "lang", "", "comma-separated languages to analyze (default: all)")
	fs.StringVar(&flags.Exclude, "exclude", "", "comma-separated directories to skip")
	fs.IntVar(&flags.Workers, "workers", 0, "parse parallelism (default: number of CPUs)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print diagnostics to stderr")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server instead of a one-shot analysis")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "localhost:8462", "listen address for the MCP server")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.Root)
	if err != nil {
		return err
	}
	applyConfig(&flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.ServeMCP {
		svc := mcptools.NewGraphService(flags.Database)
		fmt.Fprintf(os.Stderr, "seiri MCP server listening on %s\n", flags.MCPAddr)
		return mcptools.RunMCPServer(ctx, svc, flags.MCPAddr)
	}

	return runAnalyze(ctx, flags)
}

// applyConfig fills flag values the user left unset from the project config.
func applyConfig(flags *cliFlags, cfg *config.ProjectConfig) {
	if flags.Format == "" {
		flags.Format = cfg.Format
	}
	if flags.Format == "" {
		flags.Format = "text"
	}
	if flags.Output == "" {
		flags.Output = cfg.Output
	}
	if flags.Database == "" {
		flags.Database = cfg.Database
	}
	if flags.Languages == "" {
		flags.Languages = strings.Join(cfg.Languages, ",")
	}
	if flags.Exclude == "" {
		flags.Exclude = strings.Join(cfg.ExcludeDirs, ",")
	}
	if flags.Workers == 0 {
		flags.Workers = cfg.Workers
	}
	if cfg.Verbose {
		flags.Verbose = true
	}
}

func runAnalyze(ctx context.Context, flags cliFlags) error {
	result, err := engine.Build(ctx, engine.Options{
		Root:        flags.Root,
		Languages:   parseLanguages(flags.Languages),
		ExcludeDirs: splitList(flags.Exclude),
		Workers:     flags.Workers,
	})
	if err != nil {
		return err
	}

	if flags.Verbose {
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.File, d.Message)
		}
	}

	if flags.Database != "" {
		store, err := graph.NewSQLiteStore(flags.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
		if err := store.SaveGraph(ctx, result.Graph); err != nil {
			return fmt.Errorf("save graph: %w", err)
		}
	}

	var out []byte
	switch flags.Format {
	case "json":
		out, err = export.FromGraph(result.Graph).Marshal()
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		out = append(out, '\n')
	case "mermaid":
		out = []byte(export.GenerateMermaid(result.Graph))
	case "text":
		out = []byte(export.GenerateText(result.Graph, result.Diagnostics))
	case "svg":
		out = []byte(export.GenerateSVG(result.Graph))
	default:
		return fmt.Errorf("unsupported format %q", flags.Format)
	}

	if flags.Output != "" {
		if err := os.WriteFile(flags.Output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}

func parseLanguages(s string) []fact.Language {
	var langs []fact.Language
	for _, l := range splitList(s) {
		langs = append(langs, fact.Language(strings.ToLower(l)))
	}
	return langs
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
