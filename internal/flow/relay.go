package flow

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"github.com/madcapvc/blueprint/internal/domain"
	"github.com/madcapvc/blueprint/internal/llm"
)

var (
	// ErrEmptyMessage rejects blank chat turns before any state changes.
	ErrEmptyMessage = errors.New("flow: message is empty")

	// ErrSessionClosed rejects turns after the interview ended or the
	// session converted to an account.
	ErrSessionClosed = errors.New("flow: session no longer accepts messages")
)

// Relay turns a user utterance into a transcript-extending model round-trip.
type Relay struct {
	completer llm.Completer
}

// NewRelay creates a conversation relay on a completion capability.
func NewRelay(completer llm.Completer) *Relay {
	return &Relay{completer: completer}
}

// Submit runs one chat turn and yields the reply's text fragments as they
// arrive. The fixed order is: append the user entry, advance the phase, then
// prompt the model with the advanced phase, so the reply addresses the stage
// the session just moved into.
//
// On a completion failure the user entry and the advanced phase are kept
// (no rollback, no retry) and no assistant entry is appended. The folded
// assistant entry is appended only after the fragment stream is exhausted.
func (r *Relay) Submit(ctx context.Context, sess *domain.Session, userText string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if sess.InputDisabled() {
			yield("", ErrSessionClosed)
			return
		}
		if strings.TrimSpace(userText) == "" {
			yield("", ErrEmptyMessage)
			return
		}

		sess.AppendUser(userText)
		sess.Advance()

		messages := make([]domain.Message, 0, len(sess.Transcript)+1)
		messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: BuildContext(sess)})
		messages = append(messages, sess.Transcript...)

		var reply strings.Builder
		for fragment, err := range r.completer.Stream(ctx, messages) {
			if err != nil {
				slog.Error("completion failed", "session_id", sess.ID, "phase", sess.Phase.String(), "error", err)
				yield("", err)
				return
			}
			reply.WriteString(fragment)
			if !yield(fragment, nil) {
				// Consumer went away mid-stream; the partial reply is
				// dropped, like any other failed turn.
				return
			}
		}

		sess.AppendAssistant(reply.String())
	}
}
