package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/playlist"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	all, err := s.playlists.List(r.Context())
	if err != nil {
		s.fail(w, r, "list playlists", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": all})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	pl, err := s.playlists.Create(r.Context(), body.Name, body.Image)
	if err != nil {
		s.fail(w, r, "create playlist", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, pl)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	pl, ok, err := s.playlists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get playlist", err, http.StatusInternalServerError)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	var ch playlist.Changes
	if !decodeBody(w, r, &ch) {
		return
	}
	pl, found, err := s.playlists.Update(r.Context(), chi.URLParam(r, "id"), ch)
	if err != nil {
		s.fail(w, r, "update playlist", err, http.StatusInternalServerError)
		return
	}
	resp := map[string]any{"found": found}
	if found {
		resp["playlist"] = pl
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	found, err := s.playlists.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "delete playlist", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"found": found})
}

func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	var track catalog.Track
	if !decodeBody(w, r, &track) {
		return
	}
	res, err := s.playlists.AddTrack(r.Context(), chi.URLParam(r, "id"), track)
	if err != nil {
		s.fail(w, r, "add track", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	trackID, ok := idParam(r, "trackId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	res, err := s.playlists.RemoveTrack(r.Context(), chi.URLParam(r, "id"), trackID)
	if err != nil {
		s.fail(w, r, "remove track", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
