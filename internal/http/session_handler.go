package http

import (
	"encoding/json"
	"net/http"

	"github.com/cbydainnt/mygraduationproject/internal/session"
)

// SessionHandler records login/logout events coming from the UI tier. Token
// validation happens backend-side; this just keeps the client session state
// so the cart coordinator can react.
type SessionHandler struct {
	state *session.State
}

func NewSessionHandler(state *session.State) *SessionHandler {
	return &SessionHandler{state: state}
}

type LoginRequestDTO struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Token == "" || req.UserID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_session", "token and user_id are required")
		return
	}

	h.state.Login(req.Token, req.UserID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.state.Logout()
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
