package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decodeBody(w, r, &body) {
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if err := s.users.Register(r.Context(), body.Email, body.Password); err != nil {
		s.fail(w, r, "register", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": body.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decodeBody(w, r, &body) {
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if err := s.users.Authenticate(r.Context(), body.Email, body.Password); err != nil {
		s.fail(w, r, "login", err, http.StatusInternalServerError)
		return
	}
	token, err := s.tokens.Issue(body.Email)
	if err != nil {
		s.fail(w, r, "issue token", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken": token,
		"email":       body.Email,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.EndSession(r.Context()); err != nil {
		s.fail(w, r, "logout", err, http.StatusInternalServerError)
		return
	}
	if c, ok := claimsFrom(r.Context()); ok {
		s.log.Info("session ended", zap.String("email", c.Email), zap.String("jti", c.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	email, ok, err := s.users.CurrentSession(r.Context())
	if err != nil {
		s.fail(w, r, "session", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"email": email, "active": ok})
}
