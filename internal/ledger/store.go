// Package ledger imports spending transactions from CSV into a SQLite
// database and pivots them into monthly and yearly reports.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is lexically ordered so range queries work on the TEXT column.
const timeLayout = "2006-01-02 15:04:05"

// Transaction is one spending record.
type Transaction struct {
	ID         int64
	Date       time.Time
	Category   string // canonical catalog expense name
	Amount     decimal.Decimal
	SourceFile string
	Line       int
}

// Store is the SQLite-backed transaction ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the ledger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
	Rows      int
}

// TrackedFiles returns a map of file_path -> FileInfo for all imported files.
func (s *Store) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes, row_count FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.Rows); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// ReplaceFile swaps every transaction previously imported from path for txs
// and updates the file tracker, all in one database transaction.
func (s *Store) ReplaceFile(path string, txs []Transaction, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes, row_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			mtime_ns = excluded.mtime_ns,
			size_bytes = excluded.size_bytes,
			row_count = excluded.row_count`,
		path, mtimeNs, sizeBytes, len(txs))
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM transactions WHERE source_file = ?", path); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO transactions
		(occurred_at, category, amount, source_file, line, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range txs {
		if _, err := stmt.Exec(t.Date.Format(timeLayout), t.Category, t.Amount.String(), path, t.Line, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteFile removes an imported file and its transactions.
func (s *Store) DeleteFile(path string) error {
	_, err := s.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// Transactions returns transactions with from <= date < until, oldest first.
// A zero bound is open.
func (s *Store) Transactions(from, until time.Time) ([]Transaction, error) {
	query := `SELECT id, occurred_at, category, amount, source_file, line FROM transactions WHERE 1=1`
	var args []any
	if !from.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, from.Format(timeLayout))
	}
	if !until.IsZero() {
		query += " AND occurred_at < ?"
		args = append(args, until.Format(timeLayout))
	}
	query += " ORDER BY occurred_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var occurred, amount string
		if err := rows.Scan(&t.ID, &occurred, &t.Category, &amount, &t.SourceFile, &t.Line); err != nil {
			return nil, err
		}
		if t.Date, err = time.ParseInLocation(timeLayout, occurred, time.Local); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of stored transactions.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}
