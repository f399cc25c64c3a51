package graph

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/seiri-tools/seiri/internal/fact"
)

// SQLiteStore persists a finalized Graph so consumers can reopen a build
// without re-parsing the project.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			language TEXT,
			loc INTEGER,
			definitions TEXT,
			position INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS definitions (
			id TEXT PRIMARY KEY,
			qualified_name TEXT,
			kind TEXT,
			file TEXT,
			start_line INTEGER,
			end_line INTEGER,
			position INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS externals (
			name TEXT PRIMARY KEY,
			position INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			source TEXT,
			target TEXT,
			kind TEXT,
			position INTEGER,
			PRIMARY KEY (source, target, kind)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_definitions_file ON definitions(file);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveGraph replaces the stored graph with g in one transaction.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g *Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"files", "definitions", "externals", "edges"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, f := range g.Files() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO files (path, language, loc, definitions, position) VALUES (?, ?, ?, ?, ?)`,
			f.Path, string(f.Language), f.LOC, strings.Join(f.Definitions, "\n"), i)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", f.Path, err)
		}
	}

	for i, d := range g.Definitions() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO definitions (id, qualified_name, kind, file, start_line, end_line, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.QualifiedName, string(d.Kind), d.File, d.StartLine, d.EndLine, i)
		if err != nil {
			return fmt.Errorf("insert definition %s: %w", d.ID, err)
		}
	}

	for i, e := range g.ExternalModules() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO externals (name, position) VALUES (?, ?)`, e.Name, i)
		if err != nil {
			return fmt.Errorf("insert external %s: %w", e.Name, err)
		}
	}

	for i, e := range g.Edges() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO edges (source, target, kind, position) VALUES (?, ?, ?, ?)`,
			e.SourceID, e.TargetID, string(e.Kind), i)
		if err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.SourceID, e.TargetID, err)
		}
	}

	return tx.Commit()
}

// LoadGraph reads the stored graph back in its original node and edge order.
func (s *SQLiteStore) LoadGraph(ctx context.Context) (*Graph, error) {
	g := NewGraph()

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, language, loc, definitions FROM files ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var path, language, definitions string
		var loc int
		if err := rows.Scan(&path, &language, &loc, &definitions); err != nil {
			return nil, err
		}
		node := g.ensureFile(path, fact.Language(language), loc)
		if definitions != "" {
			node.Definitions = strings.Split(definitions, "\n")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	defRows, err := s.db.QueryContext(ctx,
		`SELECT qualified_name, kind, file, start_line, end_line FROM definitions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query definitions: %w", err)
	}
	defer defRows.Close()
	for defRows.Next() {
		var qualified, kind, file string
		var start, end int
		if err := defRows.Scan(&qualified, &kind, &file, &start, &end); err != nil {
			return nil, err
		}
		g.upsertDefinition(file, qualified, fact.DefKind(kind), start, end)
	}
	if err := defRows.Err(); err != nil {
		return nil, err
	}

	extRows, err := s.db.QueryContext(ctx, `SELECT name FROM externals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query externals: %w", err)
	}
	defer extRows.Close()
	for extRows.Next() {
		var name string
		if err := extRows.Scan(&name); err != nil {
			return nil, err
		}
		g.ensureExternal(name)
	}
	if err := extRows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.db.QueryContext(ctx, `SELECT source, target, kind FROM edges ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var source, target, kind string
		if err := edgeRows.Scan(&source, &target, &kind); err != nil {
			return nil, err
		}
		g.addEdge(source, target, EdgeKind(kind))
	}
	if err := edgeRows.Err(); err != nil {
		return nil, err
	}

	return g, nil
}
