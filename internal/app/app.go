// Package app wires storage, repositories and collaborators from a Config.
package app

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/auth"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/config"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/kv"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/playlist"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/preview"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/rating"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/server"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/theme"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

// App holds one instance of every component. All repositories share a
// single queue so writers of the same key are serialized process-wide.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	Store   kv.Store
	Queue   *kv.Queue
	Journal *viewsync.Journal

	Users     *auth.Service
	Playlists *playlist.Store
	Ratings   *rating.Store
	Theme     *theme.Settings
	Catalog   *catalog.Client
	Player    preview.Player

	rdb *redis.Client
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: log, Queue: kv.NewQueue(), Journal: viewsync.NewJournal()}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.Store = kv.NewMemoryStore()
	case config.BackendFile:
		fs, err := kv.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		a.Store = fs
	case config.BackendRedis:
		opt, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.rdb = redis.NewClient(opt)
		a.Store = kv.NewRedisStore(a.rdb, cfg.Store.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	scheme, err := auth.SchemeByName(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}

	a.Users = auth.NewService(a.Store, a.Queue,
		auth.WithScheme(scheme),
		auth.WithNotifier(a.Journal),
		auth.WithLogger(log.Named("auth")),
	)
	a.Playlists = playlist.NewStore(a.Store, a.Queue,
		playlist.WithNotifier(a.Journal),
		playlist.WithLogger(log.Named("playlist")),
	)
	a.Ratings = rating.NewStore(a.Store, a.Queue, a.Journal, log.Named("rating"))
	a.Theme = theme.NewSettings(a.Store, a.Queue, a.Journal)

	catOpts := []catalog.Option{catalog.WithLogger(log.Named("catalog"))}
	if a.rdb != nil && cfg.CatalogCacheTTL > 0 {
		catOpts = append(catOpts, catalog.WithCache(
			catalog.NewRedisCache(a.rdb, cfg.Store.RedisPrefix+"catalog:", cfg.CatalogCacheTTL, log.Named("catalog")),
		))
	}
	a.Catalog = catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout, catOpts...)
	a.Player = preview.NewHTTPPlayer(&http.Client{Timeout: cfg.CatalogTimeout})

	return a, nil
}

// Server builds the HTTP server. JWT_SECRET must be set.
func (a *App) Server() (*server.Server, error) {
	if err := a.Config.ValidateServe(); err != nil {
		return nil, err
	}
	return server.NewServer(server.Deps{
		Users:        a.Users,
		Tokens:       auth.NewIssuer([]byte(a.Config.JWTSecret), a.Config.AccessTokenTTL),
		Playlists:    a.Playlists,
		Ratings:      a.Ratings,
		Theme:        a.Theme,
		Catalog:      a.Catalog,
		Journal:      a.Journal,
		Log:          a.Log.Named("http"),
		MaxBodyBytes: a.Config.MaxBodyBytes,
		CORSOrigin:   a.Config.CORSOrigin,
	}), nil
}

func (a *App) Close() error {
	if a.rdb != nil {
		return a.rdb.Close()
	}
	return nil
}
