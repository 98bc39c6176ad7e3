package tabular

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite keeps sheets in a single SQLite file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the sheet database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sheet dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sheet db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS sheets (
			name       TEXT PRIMARY KEY,
			headers    TEXT NOT NULL DEFAULT '[]',
			hidden     TEXT NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			sheet TEXT    NOT NULL,
			idx   INTEGER NOT NULL,
			cells TEXT    NOT NULL,
			PRIMARY KEY (sheet, idx)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating sheet tables: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// ReadSheet implements Store.
func (s *SQLite) ReadSheet(ctx context.Context, name string) (Table, error) {
	var headers, hidden string
	err := s.db.QueryRowContext(ctx,
		`SELECT headers, hidden FROM sheets WHERE name = ?`, name).Scan(&headers, &hidden)
	if err == sql.ErrNoRows {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("reading sheet %s: %w", name, err)
	}

	var t Table
	if t.Headers, err = decodeStrings([]byte(headers)); err != nil {
		return Table{}, err
	}
	if t.Hidden, err = decodeStrings([]byte(hidden)); err != nil {
		return Table{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY idx ASC`, name)
	if err != nil {
		return Table{}, fmt.Errorf("querying rows of %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return Table{}, fmt.Errorf("scanning row of %s: %w", name, err)
		}
		row, err := decodeRow([]byte(cells))
		if err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

// WriteSheet implements Store.
func (s *SQLite) WriteSheet(ctx context.Context, name string, t Table) error {
	headers, err := json.Marshal(t.Headers)
	if err != nil {
		return fmt.Errorf("encoding headers: %w", err)
	}
	hidden, err := json.Marshal(t.Hidden)
	if err != nil {
		return fmt.Errorf("encoding hidden columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning sheet write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sheets (name, headers, hidden, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET headers = excluded.headers, hidden = excluded.hidden,
			updated_at = CURRENT_TIMESTAMP`,
		name, string(headers), string(hidden)); err != nil {
		return fmt.Errorf("writing header of %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ?`, name); err != nil {
		return fmt.Errorf("clearing rows of %s: %w", name, err)
	}

	for i, row := range t.Rows {
		cells, err := encodeRow(row, len(t.Headers))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (sheet, idx, cells) VALUES (?, ?, ?)`,
			name, i, string(cells)); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i, name, err)
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
