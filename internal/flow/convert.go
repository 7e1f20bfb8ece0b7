package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/madcapvc/blueprint/internal/domain"
)

var (
	// ErrEmptyPassword rejects conversion attempts without a password.
	ErrEmptyPassword = errors.New("flow: password is required")

	// ErrNotComplete rejects conversion before the interview finishes.
	ErrNotComplete = errors.New("flow: interview is not complete")

	// ErrAlreadyConverted rejects a second conversion of the same session.
	ErrAlreadyConverted = errors.New("flow: account already created")
)

// ConversionStore is the slice of the lead repository conversion needs.
type ConversionStore interface {
	SetConversion(ctx context.Context, email, password, blueprint string) error
}

// Converter persists the end-of-interview account: the chosen password plus
// the generated blueprint.
type Converter struct {
	leads ConversionStore
}

// NewConverter creates the account conversion service.
func NewConverter(leads ConversionStore) *Converter {
	return &Converter{leads: leads}
}

// Convert writes password and blueprint (the last assistant message) to the
// lead row matched by the session's email, then marks the session converted
// so chat input stays disabled. On a store failure the session remains at
// Complete and unconverted; the user may retry with the same password.
func (c *Converter) Convert(ctx context.Context, sess *domain.Session, password string) error {
	if sess.Converted {
		return ErrAlreadyConverted
	}
	if sess.Phase != domain.PhaseComplete {
		return ErrNotComplete
	}
	if password == "" {
		return ErrEmptyPassword
	}

	blueprint := sess.LastAssistantMessage()
	if err := c.leads.SetConversion(ctx, sess.Identity.Email, password, blueprint); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	sess.Converted = true
	return nil
}
