package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/madcapvc/blueprint/internal/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/login. Failures are reported generically so
// a caller cannot probe which field was wrong.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	rec, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, store.ErrRowNotFound) {
			slog.Error("login lookup failed", "error", err)
		}
		Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// LeadRecord's JSON tags omit the password.
	JSON(w, http.StatusOK, rec)
}

type resetRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	NewPassword string `json:"new_password"`
}

// HandleReset handles POST /api/reset. Identity is verified by the email
// and phone jointly matching a stored lead; any mismatch fails closed with
// the same generic answer.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		Error(w, http.StatusBadRequest, "new password is required")
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.Phone, req.NewPassword); err != nil {
		if !errors.Is(err, store.ErrRowNotFound) {
			slog.Error("password reset failed", "error", err)
		}
		Error(w, http.StatusUnauthorized, "verification failed")
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
