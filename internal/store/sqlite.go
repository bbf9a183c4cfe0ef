package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/budgetviz/budgetviz/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL,
	datetime    TEXT NOT NULL,
	account     TEXT NOT NULL,
	amount      TEXT NOT NULL,
	description TEXT NOT NULL,
	upi_ref     TEXT NOT NULL UNIQUE,
	order_id    TEXT NOT NULL DEFAULT '',
	remarks     TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	comment     TEXT NOT NULL DEFAULT ''
)`

// SQLite stores transactions in a SQLite database file. The UNIQUE
// constraint on upi_ref makes each insert-if-absent atomic.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %w", ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", ErrStorageUnavailable, err)
	}
	return &SQLite{db: db}, nil
}

// Insert implements Store. The batch runs in one database transaction.
func (s *SQLite) Insert(txns []model.Transaction) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO transactions
			(id, datetime, account, amount, description, upi_ref, order_id, remarks, category, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(upi_ref) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert: %w", ErrStorageUnavailable, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range txns {
		res, err := stmt.Exec(t.ID, t.FormatDateTime(), t.Account, t.Amount.String(), t.Description,
			t.UPIRef, t.OrderID, t.Remarks, t.Category, t.Comment)
		if err != nil {
			return 0, fmt.Errorf("%w: insert %s: %w", ErrStorageUnavailable, t.UPIRef, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%w: rows affected: %w", ErrStorageUnavailable, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrStorageUnavailable, err)
	}
	return inserted, nil
}

// All implements Store.
func (s *SQLite) All() ([]model.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, datetime, account, amount, description, upi_ref, order_id, remarks, category, comment
		FROM transactions
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t            model.Transaction
			when, amount string
		)
		if err := rows.Scan(&t.ID, &when, &t.Account, &amount, &t.Description,
			&t.UPIRef, &t.OrderID, &t.Remarks, &t.Category, &t.Comment); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %w", ErrStorageUnavailable, err)
		}
		if t.DateTime, err = model.ParseDateTime(when); err != nil {
			return nil, fmt.Errorf("%w: record %s: %w", ErrStorageUnavailable, t.ID, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: record %s: %w", ErrStorageUnavailable, t.ID, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return out, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
