package server

import (
	"net/http"
	"strings"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	entity := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("entity")))

	switch entity {
	case "", catalog.EntitySong:
		tracks, err := s.catalog.Search(r.Context(), term)
		if err != nil {
			s.fail(w, r, "catalog search", err, http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": tracks})
	case catalog.EntityAlbum:
		albums, err := s.catalog.SearchAlbums(r.Context(), term)
		if err != nil {
			s.fail(w, r, "catalog album search", err, http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": albums})
	default:
		writeError(w, http.StatusBadRequest, "unsupported entity")
	}
}

func (s *Server) handleFeaturedAlbums(w http.ResponseWriter, r *http.Request) {
	kw, albums, err := s.catalog.FeaturedAlbums(r.Context())
	if err != nil {
		s.fail(w, r, "featured albums", err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keyword": kw, "items": albums})
}

func (s *Server) handleAlbumTracks(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "collectionId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	tracks, err := s.catalog.Lookup(r.Context(), id)
	if err != nil {
		s.fail(w, r, "album lookup", err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tracks})
}
