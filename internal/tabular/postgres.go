package tabular

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres keeps sheets in PostgreSQL.
type Postgres struct {
	Pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres creates a connection pool and verifies it.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// ReadSheet implements Store.
func (p *Postgres) ReadSheet(ctx context.Context, name string) (Table, error) {
	var headers, hidden []byte
	err := p.Pool.QueryRow(ctx,
		`SELECT headers, hidden FROM sheets WHERE name = $1`, name).Scan(&headers, &hidden)
	if errors.Is(err, pgx.ErrNoRows) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("reading sheet %s: %w", name, err)
	}

	var t Table
	if t.Headers, err = decodeStrings(headers); err != nil {
		return Table{}, err
	}
	if t.Hidden, err = decodeStrings(hidden); err != nil {
		return Table{}, err
	}

	rows, err := p.Pool.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = $1 ORDER BY idx ASC`, name)
	if err != nil {
		return Table{}, fmt.Errorf("querying rows of %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cells []byte
		if err := rows.Scan(&cells); err != nil {
			return Table{}, fmt.Errorf("scanning row of %s: %w", name, err)
		}
		row, err := decodeRow(cells)
		if err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

// WriteSheet implements Store. Rows are sent in one batch inside a
// transaction.
func (p *Postgres) WriteSheet(ctx context.Context, name string, t Table) error {
	headers, err := json.Marshal(t.Headers)
	if err != nil {
		return fmt.Errorf("encoding headers: %w", err)
	}
	hidden, err := json.Marshal(t.Hidden)
	if err != nil {
		return fmt.Errorf("encoding hidden columns: %w", err)
	}

	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning sheet write: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sheets (name, headers, hidden, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE SET headers = EXCLUDED.headers, hidden = EXCLUDED.hidden,
			updated_at = NOW()`,
		name, headers, hidden)
	batch.Queue(`DELETE FROM sheet_rows WHERE sheet = $1`, name)
	for i, row := range t.Rows {
		cells, err := encodeRow(row, len(t.Headers))
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO sheet_rows (sheet, idx, cells) VALUES ($1, $2, $3)`, name, i, cells)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("writing sheet %s: %w", name, err)
	}
	return tx.Commit(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
