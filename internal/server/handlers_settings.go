package server

import (
	"net/http"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/theme"
)

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	dark, err := s.theme.Dark(r.Context())
	if err != nil {
		s.fail(w, r, "get theme", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"darkMode": dark, "palette": theme.PaletteFor(dark)})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DarkMode *bool `json:"darkMode"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.DarkMode == nil {
		writeError(w, http.StatusBadRequest, "darkMode is required")
		return
	}
	if err := s.theme.Set(r.Context(), *body.DarkMode); err != nil {
		s.fail(w, r, "set theme", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"darkMode": *body.DarkMode, "palette": theme.PaletteFor(*body.DarkMode)})
}
