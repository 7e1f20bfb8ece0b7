package flow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/madcapvc/blueprint/internal/domain"
)

// ErrDuplicateLead is returned when the submitted email is already
// registered. No row is written and no session is started.
var ErrDuplicateLead = errors.New("flow: email already registered")

// ValidationError reports the first failing intake field check. It is
// surfaced inline on the form; nothing is mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var digitPattern = regexp.MustCompile(`\D`)

// ValidateIntake checks the four intake fields and returns the first
// failing reason, or nil. Phone length counts digits only.
func ValidateIntake(id domain.Identity) error {
	switch {
	case id.Name == "":
		return &ValidationError{Reason: "name is required"}
	case id.Email == "":
		return &ValidationError{Reason: "email is required"}
	case id.Phone == "":
		return &ValidationError{Reason: "phone is required"}
	case id.Vision == "":
		return &ValidationError{Reason: "vision is required"}
	}
	if !emailPattern.MatchString(id.Email) {
		return &ValidationError{Reason: "email is not valid"}
	}
	if len(digitPattern.ReplaceAllString(id.Phone, "")) < 10 {
		return &ValidationError{Reason: "phone must have at least 10 digits"}
	}
	return nil
}

// LeadWriter is the slice of the lead repository intake needs.
type LeadWriter interface {
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, rec *domain.LeadRecord) error
}

// Intake turns a validated form submission into a persisted lead and a live
// interview session.
type Intake struct {
	leads    LeadWriter
	registry *Registry
}

// NewIntake creates the intake service.
func NewIntake(leads LeadWriter, registry *Registry) *Intake {
	return &Intake{leads: leads, registry: registry}
}

// Submit validates the form, rejects duplicates, persists the lead row
// (password and blueprint empty) and registers a session at the first
// interview stage with the scripted opener in its transcript.
//
// The duplicate check and append are two store calls, not one transaction;
// two simultaneous submissions of the same email can both pass the check.
func (i *Intake) Submit(ctx context.Context, id domain.Identity, device, ip string) (*domain.Session, error) {
	if err := ValidateIntake(id); err != nil {
		return nil, err
	}

	exists, err := i.leads.Exists(ctx, id.Email)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicateLead
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &domain.LeadRecord{
		Name:      id.Name,
		Email:     id.Email,
		Phone:     id.Phone,
		Vision:    id.Vision,
		Timestamp: now.Format(time.RFC3339),
		SessionID: sessionID,
		IP:        ip,
		Device:    device,
	}
	if err := i.leads.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist lead: %w", err)
	}

	sess := &domain.Session{
		ID:        sessionID,
		Identity:  id,
		Phase:     domain.PhaseValidation,
		CreatedAt: now,
	}
	sess.AppendAssistant(FirstMessage(id))
	i.registry.Register(sess)

	return sess, nil
}
