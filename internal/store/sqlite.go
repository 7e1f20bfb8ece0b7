package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements RowStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed row store.
func NewSQLite(dbPath string) (RowStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS leads (
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		vision TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		session_id TEXT NOT NULL,
		ip TEXT NOT NULL,
		device TEXT NOT NULL,
		password TEXT NOT NULL DEFAULT '',
		blueprint TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// validColumn guards query construction: column names are interpolated into
// SQL, so only the fixed layout is accepted.
func validColumn(column string) error {
	if !slices.Contains(Columns, column) {
		return fmt.Errorf("unknown column %q", column)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AppendRow appends one row; fields must follow the Columns order.
func (s *SQLiteStore) AppendRow(ctx context.Context, fields []string) error {
	if len(fields) != len(Columns) {
		return fmt.Errorf("append row: got %d fields, want %d", len(fields), len(Columns))
	}

	query := fmt.Sprintf(
		"INSERT INTO leads (%s) VALUES (%s)",
		strings.Join(Columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", "),
	)

	args := make([]interface{}, len(fields))
	for i, f := range fields {
		args[i] = f
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// FindRowByColumnValue returns the first row whose column equals value.
func (s *SQLiteStore) FindRowByColumnValue(ctx context.Context, column, value string) (RowHandle, error) {
	if err := validColumn(column); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT rowid FROM leads WHERE %s = ? ORDER BY rowid LIMIT 1", column)

	var rowid int64
	err := s.db.QueryRowContext(ctx, query, value).Scan(&rowid)
	if err == sql.ErrNoRows {
		return 0, ErrRowNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find row by %s: %w", column, err)
	}
	return RowHandle(rowid), nil
}

// ReadCell returns one cell of a previously located row.
func (s *SQLiteStore) ReadCell(ctx context.Context, row RowHandle, column string) (string, error) {
	if err := validColumn(column); err != nil {
		return "", err
	}

	query := fmt.Sprintf("SELECT %s FROM leads WHERE rowid = ?", column)

	var value string
	err := s.db.QueryRowContext(ctx, query, int64(row)).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrRowNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read cell %s: %w", column, err)
	}
	return value, nil
}

// WriteCell overwrites one cell of a previously located row.
func (s *SQLiteStore) WriteCell(ctx context.Context, row RowHandle, column, value string) error {
	if err := validColumn(column); err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE leads SET %s = ? WHERE rowid = ?", column)

	result, err := s.db.ExecContext(ctx, query, value, int64(row))
	if err != nil {
		return fmt.Errorf("write cell %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("WriteCell affected 0 rows", "row", row, "column", column)
		return ErrRowNotFound
	}
	return nil
}

// AllRows returns every stored row in insertion order.
func (s *SQLiteStore) AllRows(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf("SELECT %s FROM leads ORDER BY rowid", strings.Join(Columns, ", "))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all rows: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var out []Row
	for rows.Next() {
		values := make([]string, len(Columns))
		dest := make([]interface{}, len(Columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(Columns))
		for i, col := range Columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// ColumnValues returns one column across all rows in insertion order.
func (s *SQLiteStore) ColumnValues(ctx context.Context, column string) ([]string, error) {
	if err := validColumn(column); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM leads ORDER BY rowid", column)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query column %s: %w", column, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close column rows", "error", closeErr)
		}
	}()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan column value: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column values: %w", err)
	}
	return values, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
