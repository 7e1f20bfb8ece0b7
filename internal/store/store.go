// Package store provides lead persistence on a fixed-column row store.
package store

import (
	"context"
	"errors"
)

// Column names, in persisted row order.
const (
	ColName      = "name"
	ColEmail     = "email"
	ColPhone     = "phone"
	ColVision    = "vision"
	ColTimestamp = "timestamp"
	ColSessionID = "session_id"
	ColIP        = "ip"
	ColDevice    = "device"
	ColPassword  = "password"
	ColBlueprint = "blueprint"
)

// Columns is the fixed row layout. AppendRow expects values in this order.
var Columns = []string{
	ColName, ColEmail, ColPhone, ColVision, ColTimestamp,
	ColSessionID, ColIP, ColDevice, ColPassword, ColBlueprint,
}

// ErrRowNotFound is returned when a lookup matches no row.
var ErrRowNotFound = errors.New("store: row not found")

// RowHandle identifies a stored row for cell-level reads and writes.
type RowHandle int64

// Row maps column names to cell values.
type Row map[string]string

// RowStore is the narrow spreadsheet-like capability the rest of the
// service is written against. Lookups are exact-match; callers that need
// case folding scan ColumnValues first. Find-then-write sequences are not
// atomic across callers.
type RowStore interface {
	// AppendRow appends one row; fields must follow the Columns order.
	AppendRow(ctx context.Context, fields []string) error

	// FindRowByColumnValue returns the first row whose column equals value,
	// or ErrRowNotFound.
	FindRowByColumnValue(ctx context.Context, column, value string) (RowHandle, error)

	// ReadCell returns one cell of a previously located row.
	ReadCell(ctx context.Context, row RowHandle, column string) (string, error)

	// WriteCell overwrites one cell of a previously located row.
	WriteCell(ctx context.Context, row RowHandle, column, value string) error

	// AllRows returns every stored row in insertion order.
	AllRows(ctx context.Context) ([]Row, error)

	// ColumnValues returns one column across all rows in insertion order.
	ColumnValues(ctx context.Context, column string) ([]string, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
