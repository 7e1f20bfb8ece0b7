package domain

import (
	"time"
)

// Role tags a transcript entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged transcript entry. The transcript is
// replayed verbatim to the model on every turn, so insertion order matters.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Identity holds the intake fields, captured once and immutable afterwards.
type Identity struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Vision string `json:"vision"`
}

// Session is one visitor's in-memory interview state. A session is created
// at intake (never at NotStarted), mutated by each chat turn, and closed by
// account conversion.
type Session struct {
	ID         string
	Identity   Identity
	Transcript []Message
	Phase      Phase
	Converted  bool
	CreatedAt  time.Time
}

// Advance moves the session to the next phase. Outside the four active
// stages this is a no-op; the phase value is never corrupted or decremented.
func (s *Session) Advance() {
	s.Phase = s.Phase.Next()
}

// AppendUser appends a user entry to the transcript.
func (s *Session) AppendUser(text string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleUser, Content: text})
}

// AppendAssistant appends an assistant entry to the transcript.
func (s *Session) AppendAssistant(text string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleAssistant, Content: text})
}

// LastAssistantMessage returns the most recent assistant entry, or "" if the
// transcript has none. At Complete this is the generated blueprint.
func (s *Session) LastAssistantMessage() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleAssistant {
			return s.Transcript[i].Content
		}
	}
	return ""
}

// InputDisabled reports whether further chat turns are accepted. Input stops
// once the interview finishes or the session converts to an account.
func (s *Session) InputDisabled() bool {
	return s.Converted || !s.Phase.Active()
}
