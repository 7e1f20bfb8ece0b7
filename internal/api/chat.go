package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/madcapvc/blueprint/internal/domain"
	"github.com/madcapvc/blueprint/internal/flow"
)

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat handles POST /api/chat: one interview turn, streamed back as
// SSE. Fragments arrive as "message" events; a final "done" event carries
// the folded reply and the advanced phase. A completion failure surfaces as
// an "error" event; the user's message stays in the transcript and the
// phase stays advanced, there is no rollback.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(r)
	if !ok {
		Error(w, http.StatusNotFound, "unknown session")
		return
	}

	if !h.limiter.Allow(sess.ID) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	slog.Info("chat turn",
		"session_id", sess.ID,
		"phase", sess.Phase.String(),
		"message_length", len(req.Message),
	)

	var reply strings.Builder
	for fragment, err := range h.relay.Submit(r.Context(), sess, req.Message) {
		if err != nil {
			status := "the strategist is unavailable right now, please try again"
			if errors.Is(err, flow.ErrSessionClosed) {
				status = "the interview is finished"
			}
			if writeErr := writeSSEJSON(w, "error", map[string]string{"error": status}); writeErr != nil {
				slog.Warn("failed to write SSE error event", "error", writeErr)
				return
			}
			flusher.Flush()
			return
		}

		reply.WriteString(fragment)
		if err := writeSSEJSON(w, "message", map[string]string{"fragment": fragment}); err != nil {
			slog.Warn("failed to write SSE message event", "error", err, "session_id", sess.ID)
			return
		}
		flusher.Flush()
	}

	done := map[string]interface{}{
		"content":    reply.String(),
		"phase":      sess.Phase.String(),
		"indicators": domain.StatusIndicators(sess.Phase),
		"complete":   sess.Phase == domain.PhaseComplete,
	}
	if err := writeSSEJSON(w, "done", done); err != nil {
		slog.Warn("failed to write SSE done event", "error", err, "session_id", sess.ID)
		return
	}
	flusher.Flush()
}

func writeSSE(w io.Writer, event, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func writeSSEJSON(w io.Writer, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal SSE payload: %w", err)
	}
	return writeSSE(w, event, string(data))
}
