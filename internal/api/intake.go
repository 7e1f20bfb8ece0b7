package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/madcapvc/blueprint/internal/domain"
	"github.com/madcapvc/blueprint/internal/fingerprint"
	"github.com/madcapvc/blueprint/internal/flow"
)

type intakeResponse struct {
	SessionID  string             `json:"session_id"`
	Message    string             `json:"message"`
	Phase      string             `json:"phase"`
	Indicators []domain.Indicator `json:"indicators"`
}

// HandleIntake handles POST /api/intake: validate the form, reject
// duplicates, persist the lead and open the interview session.
func (h *Handler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	var id domain.Identity
	if !decodeJSON(w, r, &id) {
		return
	}

	device, ip := fingerprint.FromRequest(r)

	sess, err := h.intake.Submit(r.Context(), id, device, ip)
	if err != nil {
		var verr *flow.ValidationError
		switch {
		case errors.As(err, &verr):
			Error(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, flow.ErrDuplicateLead):
			Error(w, http.StatusConflict, "this email is already registered")
		default:
			slog.Error("intake failed", "error", err)
			Error(w, http.StatusBadGateway, "lead store unavailable, please try again")
		}
		return
	}

	slog.Info("lead captured", "session_id", sess.ID, "email", sess.Identity.Email, "ip", ip)

	JSON(w, http.StatusCreated, intakeResponse{
		SessionID:  sess.ID,
		Message:    sess.LastAssistantMessage(),
		Phase:      sess.Phase.String(),
		Indicators: domain.StatusIndicators(sess.Phase),
	})
}

type sessionStatusResponse struct {
	SessionID  string             `json:"session_id"`
	Phase      string             `json:"phase"`
	Indicators []domain.Indicator `json:"indicators"`
	Complete   bool               `json:"complete"`
	Converted  bool               `json:"converted"`
}

// HandleSessionStatus handles GET /api/session/{sessionID}: the 4-segment
// phase indicator plus terminal flags, for the frontend to render.
func (h *Handler) HandleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.registry.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		Error(w, http.StatusNotFound, "unknown session")
		return
	}

	JSON(w, http.StatusOK, sessionStatusResponse{
		SessionID:  sess.ID,
		Phase:      sess.Phase.String(),
		Indicators: domain.StatusIndicators(sess.Phase),
		Complete:   sess.Phase == domain.PhaseComplete,
		Converted:  sess.Converted,
	})
}
