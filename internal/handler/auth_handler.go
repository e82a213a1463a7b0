package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/auth"
)

const maxNameLength = 24

// AuthHandler issues guest session tokens. There is no registration;
// players pick a display name and get a signed session.
type AuthHandler struct {
	jwtMgr *auth.JWTManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr}
}

type guestRequest struct {
	Name string `json:"name"`
}

type guestResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// HandleGuest handles POST /auth/guest — creates a guest session.
func (h *AuthHandler) HandleGuest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	sessionID := "sess-" + uuid.NewString()
	token, err := h.jwtMgr.GenerateToken(sessionID, name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign guest token")
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	writeJSON(w, http.StatusCreated, guestResponse{
		Token:     token,
		SessionID: sessionID,
		Name:      name,
		ExpiresIn: h.jwtMgr.TokenExpiry(),
	})
}
