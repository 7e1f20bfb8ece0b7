// Package api provides HTTP handlers for the Blueprint intake API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/madcapvc/blueprint/internal/config"
	"github.com/madcapvc/blueprint/internal/domain"
	"github.com/madcapvc/blueprint/internal/flow"
)

// maxRequestBodySize caps JSON request bodies (1MB).
const maxRequestBodySize = 1 << 20

// SessionHeaderName carries the session ID on chat requests.
const SessionHeaderName = "X-Session-ID"

// Authenticator is the slice of the lead repository the auth views need.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.LeadRecord, error)
	ResetPassword(ctx context.Context, email, phone, newPassword string) error
}

// Handler serves the intake, chat, conversion and auth endpoints.
type Handler struct {
	registry  *flow.Registry
	intake    *flow.Intake
	relay     *flow.Relay
	converter *flow.Converter
	auth      Authenticator
	limiter   *RateLimiter
}

// NewHandler creates the API handler.
func NewHandler(registry *flow.Registry, intake *flow.Intake, relay *flow.Relay, converter *flow.Converter, auth Authenticator, cfg *config.Config) *Handler {
	return &Handler{
		registry:  registry,
		intake:    intake,
		relay:     relay,
		converter: converter,
		auth:      auth,
		limiter:   NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration),
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/intake", h.HandleIntake)
		r.Post("/chat", h.HandleChat)
		r.Get("/session/{sessionID}", h.HandleSessionStatus)
		r.Post("/convert", h.HandleConvert)
		r.Post("/login", h.HandleLogin)
		r.Post("/reset", h.HandleReset)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// sessionFromRequest resolves the session named in the header or query.
func (h *Handler) sessionFromRequest(r *http.Request) (*domain.Session, bool) {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	if sid == "" {
		return nil, false
	}
	return h.registry.Get(sid)
}
