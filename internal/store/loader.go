package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/patternmine/api"
	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/rules"
)

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	return db, nil
}

// StreamRules calls fn for every stored rule in insertion order, holding
// one parsed record at a time.
func StreamRules(dbPath string, fn func(api.RuleRecord) error) error {
	db, err := open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT record FROM rules ORDER BY id")
	if err != nil {
		return fmt.Errorf("query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		v, err := oj.ParseString(raw)
		if err != nil {
			return fmt.Errorf("parse rule json: %w", err)
		}
		rec, err := api.RuleRecordFromGeneric(v)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LoadRules returns every stored rule record.
func LoadRules(dbPath string) ([]api.RuleRecord, error) {
	var out []api.RuleRecord
	err := StreamRules(dbPath, func(rec api.RuleRecord) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

// LoadBoards returns every stored board keyed by id.
func LoadBoards(dbPath string) (map[string]*board.Board, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT id, document FROM boards")
	if err != nil {
		return nil, fmt.Errorf("query boards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]*board.Board)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		b, err := board.ParseDocument([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("board %s: %w", id, err)
		}
		out[id] = b
	}
	return out, rows.Err()
}

// LoadBoard returns one stored board.
func LoadBoard(dbPath, id string) (*board.Board, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var doc string
	err = db.QueryRow("SELECT document FROM boards WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query board %s: %w", id, err)
	}
	return board.ParseDocument([]byte(doc))
}

// Decode rebuilds a rule on b.
func Decode(rec api.RuleRecord, b *board.Board) (*rules.PatternRule, error) {
	return rules.FromRecord(rec, b)
}

// LoadPatternRules decodes every stored rule onto its stored board.
func LoadPatternRules(dbPath string) ([]*rules.PatternRule, error) {
	boards, err := LoadBoards(dbPath)
	if err != nil {
		return nil, err
	}
	var out []*rules.PatternRule
	err = StreamRules(dbPath, func(rec api.RuleRecord) error {
		b, ok := boards[rec.BoardID]
		if !ok {
			return fmt.Errorf("board %s: %w", rec.BoardID, ErrNotFound)
		}
		r, err := Decode(rec, b)
		if err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Query keeps the records matched by a JSONPath expression evaluated over a
// one-element array holding the record, e.g. `$[?(@.highlander == true)]`.
func Query(records []api.RuleRecord, expr string) ([]api.RuleRecord, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}
	var out []api.RuleRecord
	for _, rec := range records {
		if len(x.Get([]any{rec.Generic()})) > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}
