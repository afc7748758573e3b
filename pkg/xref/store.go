// Package xref persists the symbol cross-reference index produced during
// population, so editors and follow-up runs can answer "who depends on this
// class" without re-analyzing the whole codebase.
package xref

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/loamlang/loam/pkg/populate"
)

// Store is the SQLite data access layer for the cross-reference index.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the index database at dbPath with WAL mode
// enabled and the schema migrated.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS symbol_references (
  id          INTEGER PRIMARY KEY,
  from_symbol TEXT NOT NULL,
  to_symbol   TEXT NOT NULL,
  type_level  BOOLEAN NOT NULL DEFAULT TRUE,
  UNIQUE (from_symbol, to_symbol, type_level)
);

CREATE INDEX IF NOT EXISTS idx_references_to ON symbol_references (to_symbol);
`

// RecordAll replaces the stored edges for every class in the results. The
// write happens in one transaction so a crash never leaves a class with
// half its edges.
func (s *Store) RecordAll(results []*populate.PopulationResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	del, err := tx.Prepare(`DELETE FROM symbol_references WHERE from_symbol = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer del.Close()

	ins, err := tx.Prepare(`
		INSERT OR IGNORE INTO symbol_references (from_symbol, to_symbol, type_level)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()

	for _, r := range results {
		if _, err := del.Exec(r.Class.Name); err != nil {
			return fmt.Errorf("clear %s: %w", r.Class.Name, err)
		}
		for _, ref := range r.SymbolReferences {
			if _, err := ins.Exec(ref.From, ref.To, ref.TypeLevel); err != nil {
				return fmt.Errorf("record %s -> %s: %w", ref.From, ref.To, err)
			}
		}
	}
	return tx.Commit()
}

// ReferencesTo returns every recorded edge pointing at the symbol, sorted
// by referencing class.
func (s *Store) ReferencesTo(symbol string) ([]populate.SymbolReference, error) {
	rows, err := s.db.Query(`
		SELECT from_symbol, to_symbol, type_level
		FROM symbol_references
		WHERE to_symbol = ?
		ORDER BY from_symbol`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var refs []populate.SymbolReference
	for rows.Next() {
		var ref populate.SymbolReference
		if err := rows.Scan(&ref.From, &ref.To, &ref.TypeLevel); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ReferencesFrom returns every recorded edge leaving the symbol, sorted by
// target.
func (s *Store) ReferencesFrom(symbol string) ([]populate.SymbolReference, error) {
	rows, err := s.db.Query(`
		SELECT from_symbol, to_symbol, type_level
		FROM symbol_references
		WHERE from_symbol = ?
		ORDER BY to_symbol`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var refs []populate.SymbolReference
	for rows.Next() {
		var ref populate.SymbolReference
		if err := rows.Scan(&ref.From, &ref.To, &ref.TypeLevel); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
