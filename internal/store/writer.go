// Package store persists mined rule collections in SQLite. Rules are kept as
// JSON records next to the documents of the boards they refer to, so a
// collection can be reloaded without the configuration that produced it.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/rules"
)

// ErrNotFound is returned when a board or rule is not in the database.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS boards (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	document JSON NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id TEXT NOT NULL,
	highlander INTEGER NOT NULL,
	input TEXT NOT NULL,
	output TEXT NOT NULL,
	record JSON NOT NULL,
	UNIQUE (board_id, highlander, input, output)
);
`

// DefaultBatchSize is the number of rules written per transaction.
const DefaultBatchSize = 1000

// SQLiteWriter appends rules to a database in batched transactions.
type SQLiteWriter struct {
	db        *sql.DB
	tx        *sql.Tx
	stmtBoard *sql.Stmt
	stmtRule  *sql.Stmt
	batchSize int
	pending   int
	written   int
	boards    map[string]bool
	mu        sync.Mutex
}

// NewSQLiteWriter opens (creating if needed) the database at dbPath.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &SQLiteWriter{
		db:        db,
		batchSize: DefaultBatchSize,
		boards:    make(map[string]bool),
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	w.stmtBoard, err = w.tx.Prepare(`INSERT OR REPLACE INTO boards (id, name, document) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare board insert: %w", err)
	}
	w.stmtRule, err = w.tx.Prepare(`
		INSERT OR IGNORE INTO rules (board_id, highlander, input, output, record)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare rule insert: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) commitTx() error {
	if w.stmtBoard != nil {
		_ = w.stmtBoard.Close()
	}
	if w.stmtRule != nil {
		_ = w.stmtRule.Close()
	}
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// AddBoard stores the document of b. Boards are stored once per writer.
func (w *SQLiteWriter) AddBoard(b *board.Board) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addBoard(b)
}

func (w *SQLiteWriter) addBoard(b *board.Board) error {
	if w.boards[b.ID()] {
		return nil
	}
	if _, err := w.stmtBoard.Exec(b.ID(), b.Name(), board.EncodeDocument(b)); err != nil {
		return fmt.Errorf("insert board %s: %w", b.Name(), err)
	}
	w.boards[b.ID()] = true
	return nil
}

// AddRule stores r and its board. Duplicate rules are ignored.
func (w *SQLiteWriter) AddRule(r *rules.PatternRule) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.addBoard(r.Board()); err != nil {
		return err
	}
	rec := r.Record()
	res, err := w.stmtRule.Exec(
		rec.BoardID,
		rec.Highlander,
		strings.Join(rec.Input, ","),
		strings.Join(rec.Output, ","),
		oj.JSON(rec.Generic(), &oj.Options{Sort: true}),
	)
	if err != nil {
		return fmt.Errorf("insert rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		w.written++
	}

	w.pending++
	if w.pending >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return err
		}
		if err := w.beginTx(); err != nil {
			return err
		}
		w.pending = 0
	}
	return nil
}

// Written returns the number of new rules stored so far.
func (w *SQLiteWriter) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Close commits outstanding rules and closes the database.
func (w *SQLiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_rules_board ON rules(board_id)`); err != nil {
		_ = w.db.Close()
		return fmt.Errorf("create index: %w", err)
	}
	return w.db.Close()
}
