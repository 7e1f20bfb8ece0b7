package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/madcapvc/blueprint/internal/domain"
)

// Leads is the typed lead repository layered on the row store.
//
// Email matching is configurable: the duplicate-check and update paths fold
// case when foldEmail is set, by scanning the email column rather than
// relying on a store-side collation. Passwords are stored and compared as
// plain strings.
type Leads struct {
	rows      RowStore
	foldEmail bool
}

// NewLeads creates a lead repository. caseInsensitiveEmail controls whether
// email lookups fold case.
func NewLeads(rows RowStore, caseInsensitiveEmail bool) *Leads {
	return &Leads{rows: rows, foldEmail: caseInsensitiveEmail}
}

// Create appends a new lead row. Password and Blueprint are persisted as
// given; at intake both are empty.
func (l *Leads) Create(ctx context.Context, rec *domain.LeadRecord) error {
	fields := []string{
		rec.Name, rec.Email, rec.Phone, rec.Vision, rec.Timestamp,
		rec.SessionID, rec.IP, rec.Device, rec.Password, rec.Blueprint,
	}
	if err := l.rows.AppendRow(ctx, fields); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// Exists reports whether a lead with this email is already registered.
func (l *Leads) Exists(ctx context.Context, email string) (bool, error) {
	_, err := l.findEmailRow(ctx, email)
	if err == ErrRowNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetConversion writes password and blueprint to the lead matched by email,
// closing the intake flow. Returns ErrRowNotFound if the lead vanished from
// the store.
func (l *Leads) SetConversion(ctx context.Context, email, password, blueprint string) error {
	row, err := l.findEmailRow(ctx, email)
	if err != nil {
		return err
	}
	if err := l.rows.WriteCell(ctx, row, ColPassword, password); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	if err := l.rows.WriteCell(ctx, row, ColBlueprint, blueprint); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	return nil
}

// Login scans stored leads for an exact email+password match. Only rows
// with a non-empty stored password are considered accounts. Returns
// ErrRowNotFound on any mismatch so callers can answer generically.
func (l *Leads) Login(ctx context.Context, email, password string) (*domain.LeadRecord, error) {
	rows, err := l.rows.AllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("login scan: %w", err)
	}

	for _, row := range rows {
		if row[ColPassword] == "" {
			continue
		}
		if !l.emailEqual(row[ColEmail], email) || row[ColPassword] != password {
			continue
		}
		return recordFromRow(row), nil
	}
	return nil, ErrRowNotFound
}

// ResetPassword overwrites the stored password when email and phone jointly
// match a lead. Fails closed: any mismatch or lookup error returns
// ErrRowNotFound or the underlying error, and nothing is written.
func (l *Leads) ResetPassword(ctx context.Context, email, phone, newPassword string) error {
	row, err := l.findEmailRow(ctx, email)
	if err != nil {
		return err
	}

	storedPhone, err := l.rows.ReadCell(ctx, row, ColPhone)
	if err != nil {
		return fmt.Errorf("verify phone: %w", err)
	}
	if storedPhone != phone {
		return ErrRowNotFound
	}

	if err := l.rows.WriteCell(ctx, row, ColPassword, newPassword); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// findEmailRow locates the lead row for an email, folding case when
// configured. The fold path scans the email column for the stored spelling
// and re-resolves it to a handle.
func (l *Leads) findEmailRow(ctx context.Context, email string) (RowHandle, error) {
	if !l.foldEmail {
		return l.rows.FindRowByColumnValue(ctx, ColEmail, email)
	}

	values, err := l.rows.ColumnValues(ctx, ColEmail)
	if err != nil {
		return 0, fmt.Errorf("scan emails: %w", err)
	}
	for _, stored := range values {
		if strings.EqualFold(stored, email) {
			return l.rows.FindRowByColumnValue(ctx, ColEmail, stored)
		}
	}
	return 0, ErrRowNotFound
}

func (l *Leads) emailEqual(a, b string) bool {
	if l.foldEmail {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func recordFromRow(row Row) *domain.LeadRecord {
	return &domain.LeadRecord{
		Name:      row[ColName],
		Email:     row[ColEmail],
		Phone:     row[ColPhone],
		Vision:    row[ColVision],
		Timestamp: row[ColTimestamp],
		SessionID: row[ColSessionID],
		IP:        row[ColIP],
		Device:    row[ColDevice],
		Password:  row[ColPassword],
		Blueprint: row[ColBlueprint],
	}
}
