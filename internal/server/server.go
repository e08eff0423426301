// Package server exposes the library over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/auth"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/playlist"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/rating"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

// Catalog is the catalog surface the HTTP layer needs.
type Catalog interface {
	catalog.Catalog
	FeaturedAlbums(ctx context.Context) (string, []catalog.Album, error)
}

// Theme reads and writes the dark-mode preference.
type Theme interface {
	Dark(ctx context.Context) (bool, error)
	Set(ctx context.Context, dark bool) error
}

type Deps struct {
	Users     auth.Directory
	Tokens    *auth.Issuer
	Playlists playlist.Repository
	Ratings   rating.Repository
	Theme     Theme
	Catalog   Catalog
	Journal   *viewsync.Journal
	Log       *zap.Logger

	MaxBodyBytes int64
	CORSOrigin   string
}

type Server struct {
	users     auth.Directory
	tokens    *auth.Issuer
	playlists playlist.Repository
	ratings   rating.Repository
	theme     Theme
	catalog   Catalog
	journal   *viewsync.Journal
	log       *zap.Logger

	maxBody    int64
	corsOrigin string
}

func NewServer(d Deps) *Server {
	s := &Server{
		users:      d.Users,
		tokens:     d.Tokens,
		playlists:  d.Playlists,
		ratings:    d.Ratings,
		theme:      d.Theme,
		catalog:    d.Catalog,
		journal:    d.Journal,
		log:        d.Log,
		maxBody:    d.MaxBodyBytes,
		corsOrigin: d.CORSOrigin,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.journal == nil {
		s.journal = viewsync.NewJournal()
	}
	if s.maxBody <= 0 {
		s.maxBody = 1 << 20
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	return s
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogMiddleware)
	r.Use(corsMiddleware(s.corsOrigin))
	r.Use(bodySizeLimitMiddleware(s.maxBody))
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.jwtAuthMiddleware)

		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/session", s.handleSession)

		r.Get("/playlists", s.handleListPlaylists)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Get("/playlists/{id}", s.handleGetPlaylist)
		r.Patch("/playlists/{id}", s.handlePatchPlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)
		r.Post("/playlists/{id}/tracks", s.handleAddTrack)
		r.Delete("/playlists/{id}/tracks/{trackId}", s.handleRemoveTrack)

		r.Get("/ratings", s.handleListRatings)
		r.Get("/ratings/{trackId}", s.handleGetRating)
		r.Put("/ratings/{trackId}", s.handleSetRating)

		r.Get("/settings/theme", s.handleGetTheme)
		r.Put("/settings/theme", s.handleSetTheme)

		r.Get("/catalog/search", s.handleSearch)
		r.Get("/catalog/albums", s.handleFeaturedAlbums)
		r.Get("/catalog/albums/{collectionId}/tracks", s.handleAlbumTracks)

		r.Get("/sync/versions", s.handleSyncVersions)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "itunes-seeker",
	})
}

// handleSyncVersions lets clients tell whether a view they hold is stale.
func (s *Server) handleSyncVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"versions": s.journal.Versions()})
}
