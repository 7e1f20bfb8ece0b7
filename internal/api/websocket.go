package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/madcapvc/blueprint/internal/domain"
	"github.com/madcapvc/blueprint/internal/flow"
)

// wsInbound is a chat turn sent by the client.
type wsInbound struct {
	Message string `json:"message"`
}

// wsOutbound is a frame sent to the client. Type is fragment, done or error.
type wsOutbound struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Phase    string `json:"phase,omitempty"`
	Complete bool   `json:"complete,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HandleWS handles GET /ws/chat: the websocket alternative to the SSE chat
// endpoint. Each inbound message runs one interview turn; fragments stream
// back as they arrive, followed by a done frame. The socket stays open
// across turns until the client disconnects or the interview closes.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(r)
	if !ok {
		Error(w, http.StatusNotFound, "unknown session")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("failed to accept websocket", "error", err, "session_id", sess.ID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("failed to close websocket", "error", closeErr, "session_id", sess.ID)
		}
	}()

	ctx := r.Context()
	slog.Info("websocket chat connected", "session_id", sess.ID, "phase", sess.Phase.String())

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				slog.Debug("websocket read error", "error", err, "session_id", sess.ID)
			}
			return
		}

		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil {
			if err := writeWS(ctx, ws, wsOutbound{Type: "error", Error: "invalid message"}); err != nil {
				return
			}
			continue
		}

		if !h.limiter.Allow(sess.ID) {
			if err := writeWS(ctx, ws, wsOutbound{Type: "error", Error: "rate limit exceeded"}); err != nil {
				return
			}
			continue
		}

		if !h.runTurn(ctx, ws, sess, in.Message) {
			return
		}
	}
}

// runTurn streams one relay turn over the socket. Returns false when the
// connection is unusable and the read loop should stop.
func (h *Handler) runTurn(ctx context.Context, ws *websocket.Conn, sess *domain.Session, message string) bool {
	for fragment, err := range h.relay.Submit(ctx, sess, message) {
		if err != nil {
			msg := "the strategist is unavailable right now, please try again"
			if errors.Is(err, flow.ErrSessionClosed) {
				msg = "the interview is finished"
			} else if errors.Is(err, flow.ErrEmptyMessage) {
				msg = "message is required"
			}
			return writeWS(ctx, ws, wsOutbound{Type: "error", Error: msg}) == nil
		}
		if err := writeWS(ctx, ws, wsOutbound{Type: "fragment", Content: fragment}); err != nil {
			return false
		}
	}

	done := wsOutbound{
		Type:     "done",
		Content:  sess.LastAssistantMessage(),
		Phase:    sess.Phase.String(),
		Complete: sess.Phase == domain.PhaseComplete,
	}
	return writeWS(ctx, ws, done) == nil
}

func writeWS(ctx context.Context, ws *websocket.Conn, v wsOutbound) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
