package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"daneth-messenger/auth"
	"daneth-messenger/domain"
	apperrors "daneth-messenger/errors"

	"github.com/samber/lo"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	token, identity, err := s.authService.Login(body.Username, body.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"token": string(token),
		"user":  toUserPayload(identity),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, apperrors.ErrUnauthorized)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserPayload(identity))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	identities, err := s.messenger.ListUsers(0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	users := lo.Map(identities, func(i domain.Identity, _ int) userPayload {
		return userPayload{ID: i.ID, Username: i.Username}
	})
	s.writeJSON(w, http.StatusOK, users)
}

// handleHistory returns messages, optionally scoped to the conversation
// with `?with=<username-or-id>`, oldest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	messages, err := s.messenger.History(identity, r.URL.Query().Get("with"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMessagePayloads(messages))
}

// handlePostMessage is the request/response send path; unlike the socket
// path, validation and storage failures surface to the caller here.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, apperrors.ErrUnauthorized)
		return
	}

	var body sendPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	message, err := s.messenger.Send(r.Context(), domain.SendIntent{
		Sender:      identity,
		Recipient:   body.Recipient,
		RecipientID: body.RecipientID,
		Content:     body.Content,
	}, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMessagePayload(message))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	identity, err := s.authService.CreateUser(body.Username, body.Password, body.IsAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": toUserPayload(identity)})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username    string `json:"username"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.NewPassword == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	if err := s.authService.ResetPassword(body.Username, body.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
