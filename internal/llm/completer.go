// Package llm provides the chat-completion capability.
package llm

import (
	"context"
	"iter"

	"github.com/madcapvc/blueprint/internal/domain"
)

// Completer streams one completion for an ordered message history. The
// sequence yields text fragments that concatenate to the final reply; a
// non-nil error ends the sequence and aborts the turn. The sequence is
// finite and not restartable.
type Completer interface {
	Stream(ctx context.Context, messages []domain.Message) iter.Seq2[string, error]
}

// Ensure Client implements Completer.
var _ Completer = (*Client)(nil)
