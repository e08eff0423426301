package server

import (
	"net/http"
)

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	all, err := s.ratings.All(r.Context())
	if err != nil {
		s.fail(w, r, "list ratings", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ratings": all})
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	trackID, ok := idParam(r, "trackId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	value, rated, err := s.ratings.Get(r.Context(), trackID)
	if err != nil {
		s.fail(w, r, "get rating", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trackId": trackID,
		"rating":  value,
		"rated":   rated,
	})
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	trackID, ok := idParam(r, "trackId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var body struct {
		Rating int `json:"rating"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.ratings.Set(r.Context(), trackID, body.Rating); err != nil {
		s.fail(w, r, "set rating", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trackId": trackID, "rating": body.Rating})
}
