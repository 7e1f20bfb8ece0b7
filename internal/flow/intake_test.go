package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/madcapvc/blueprint/internal/domain"
)

// fakeLeads records created leads and answers duplicate checks from them.
type fakeLeads struct {
	created   []*domain.LeadRecord
	existsErr error
	createErr error
	fold      bool
}

func (f *fakeLeads) Exists(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, rec := range f.created {
		if f.fold && strings.EqualFold(rec.Email, email) {
			return true, nil
		}
		if rec.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeads) Create(_ context.Context, rec *domain.LeadRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, rec)
	return nil
}

func validIdentity() domain.Identity {
	return domain.Identity{
		Name:   "Ada",
		Email:  "ada@example.com",
		Phone:  "555-123-4567",
		Vision: "robot bakery",
	}
}

func TestValidateIntake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*domain.Identity)
		wantReason string
	}{
		{"valid", func(*domain.Identity) {}, ""},
		{"empty name", func(id *domain.Identity) { id.Name = "" }, "name is required"},
		{"empty vision", func(id *domain.Identity) { id.Vision = "" }, "vision is required"},
		{"bad email", func(id *domain.Identity) { id.Email = "bad" }, "email is not valid"},
		{"short phone", func(id *domain.Identity) { id.Phone = "555-123" }, "phone must have at least 10 digits"},
		{"phone with punctuation ok", func(id *domain.Identity) { id.Phone = "(555) 123-4567" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id := validIdentity()
			tt.mutate(&id)

			err := ValidateIntake(id)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("want success, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", verr.Reason, tt.wantReason)
			}
		})
	}
}

func TestSubmitCreatesLeadAndSession(t *testing.T) {
	t.Parallel()

	leads := &fakeLeads{}
	registry := NewRegistry()
	intake := NewIntake(leads, registry)

	sess, err := intake.Submit(context.Background(), validIdentity(), "agent/1.0", "203.0.113.9")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if sess.Phase != domain.PhaseValidation {
		t.Errorf("phase: got %s, want Validation", sess.Phase)
	}
	if len(sess.Transcript) != 1 || sess.Transcript[0].Role != domain.RoleAssistant {
		t.Fatalf("transcript: got %+v, want one assistant opener", sess.Transcript)
	}
	if !strings.Contains(sess.Transcript[0].Content, "robot bakery") {
		t.Errorf("opener should name the vision: %q", sess.Transcript[0].Content)
	}

	if len(leads.created) != 1 {
		t.Fatalf("created leads: got %d, want 1", len(leads.created))
	}
	rec := leads.created[0]
	if rec.Password != "" || rec.Blueprint != "" {
		t.Error("new lead must have empty password and blueprint")
	}
	if rec.Device != "agent/1.0" || rec.IP != "203.0.113.9" {
		t.Errorf("fingerprint: got device=%q ip=%q", rec.Device, rec.IP)
	}
	if rec.SessionID != sess.ID {
		t.Errorf("session id mismatch: row %q, session %q", rec.SessionID, sess.ID)
	}

	if got, ok := registry.Get(sess.ID); !ok || got != sess {
		t.Error("session not registered")
	}
}

func TestSubmitRejectsDuplicateBeforeSession(t *testing.T) {
	t.Parallel()

	leads := &fakeLeads{}
	registry := NewRegistry()
	intake := NewIntake(leads, registry)

	if _, err := intake.Submit(context.Background(), validIdentity(), "ua", "ip"); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	_, err := intake.Submit(context.Background(), validIdentity(), "ua", "ip")
	if !errors.Is(err, ErrDuplicateLead) {
		t.Fatalf("got err %v, want ErrDuplicateLead", err)
	}
	if len(leads.created) != 1 {
		t.Errorf("duplicate must not create a second row, got %d", len(leads.created))
	}
	if registry.Len() != 1 {
		t.Errorf("duplicate must not start a session, got %d live sessions", registry.Len())
	}
}

func TestSubmitValidationLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	leads := &fakeLeads{}
	intake := NewIntake(leads, NewRegistry())

	id := validIdentity()
	id.Email = "nope"
	if _, err := intake.Submit(context.Background(), id, "ua", "ip"); err == nil {
		t.Fatal("want validation error")
	}
	if len(leads.created) != 0 {
		t.Error("validation failure must not write to the store")
	}
}

func TestSubmitStoreErrorSurfaced(t *testing.T) {
	t.Parallel()

	leads := &fakeLeads{createErr: errors.New("store unreachable")}
	registry := NewRegistry()
	intake := NewIntake(leads, registry)

	if _, err := intake.Submit(context.Background(), validIdentity(), "ua", "ip"); err == nil {
		t.Fatal("want store error")
	}
	if registry.Len() != 0 {
		t.Error("failed intake must not register a session")
	}
}
