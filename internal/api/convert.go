package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/madcapvc/blueprint/internal/flow"
)

type convertRequest struct {
	SessionID string `json:"session_id"`
	Password  string `json:"password"`
}

// HandleConvert handles POST /api/convert: turn a completed interview into
// a persisted account. A store failure leaves the session unconverted and
// retryable.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, ok := h.registry.Get(req.SessionID)
	if !ok {
		Error(w, http.StatusNotFound, "unknown session")
		return
	}

	if err := h.converter.Convert(r.Context(), sess, req.Password); err != nil {
		switch {
		case errors.Is(err, flow.ErrEmptyPassword):
			Error(w, http.StatusBadRequest, "password is required")
		case errors.Is(err, flow.ErrNotComplete):
			Error(w, http.StatusBadRequest, "the interview is not finished yet")
		case errors.Is(err, flow.ErrAlreadyConverted):
			Error(w, http.StatusConflict, "account already created")
		default:
			slog.Error("conversion failed", "session_id", sess.ID, "error", err)
			Error(w, http.StatusBadGateway, "failed to save your account, please try again")
		}
		return
	}

	slog.Info("account converted", "session_id", sess.ID, "email", sess.Identity.Email)
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
