package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/apperr"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
)

func TestRatings(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "a@x.io")

	rr := env.do(t, http.MethodPut, "/ratings/100", token, map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodPut, "/ratings/100", token, map[string]int{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "rating must be between 1 and 5")

	rr = env.do(t, http.MethodGet, "/ratings/100", token, nil)
	assert.JSONEq(t, `{"trackId":100,"rating":4,"rated":true}`, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/ratings/7", token, nil)
	assert.JSONEq(t, `{"trackId":7,"rating":0,"rated":false}`, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/ratings", token, nil)
	assert.JSONEq(t, `{"ratings":{"100":4}}`, rr.Body.String())

	rr = env.do(t, http.MethodPut, "/ratings/0", token, map[string]int{"rating": 3})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTheme(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "a@x.io")

	rr := env.do(t, http.MethodGet, "/settings/theme", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"darkMode":false`)

	rr = env.do(t, http.MethodPut, "/settings/theme", token, map[string]bool{"darkMode": true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"background":"#121212"`)

	rr = env.do(t, http.MethodPut, "/settings/theme", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncVersions(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "a@x.io")

	env.do(t, http.MethodPost, "/playlists", token, map[string]string{"name": "A", "image": "i"})
	env.do(t, http.MethodPut, "/ratings/5", token, map[string]int{"rating": 2})

	rr := env.do(t, http.MethodGet, "/sync/versions", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[struct {
		Versions map[string]uint64 `json:"versions"`
	}](t, rr)
	assert.Equal(t, uint64(1), resp.Versions["playlist.created"])
	assert.Equal(t, uint64(1), resp.Versions["rating.set"])
	assert.Equal(t, uint64(1), resp.Versions["session.changed"])
}

func TestCatalogSearch(t *testing.T) {
	t.Run("songs", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "a@x.io")
		tracks := []catalog.Track{{TrackID: 1, TrackName: "One"}}
		env.catalog.On("Search", mock.Anything, "metallica").Return(tracks, nil)

		rr := env.do(t, http.MethodGet, "/catalog/search?term=metallica", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode[struct {
			Items []catalog.Track `json:"items"`
		}](t, rr)
		assert.Equal(t, tracks, resp.Items)
		env.catalog.AssertExpectations(t)
	})

	t.Run("albums", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "a@x.io")
		env.catalog.On("SearchAlbums", mock.Anything, "pop").Return([]catalog.Album{{CollectionID: 9}}, nil)

		rr := env.do(t, http.MethodGet, "/catalog/search?term=pop&entity=album", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"collectionId":9`)
	})

	t.Run("unsupported entity", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "a@x.io")
		rr := env.do(t, http.MethodGet, "/catalog/search?term=x&entity=podcast", token, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty term", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "a@x.io")
		env.catalog.On("Search", mock.Anything, "").Return(nil, apperr.Validation("term is required"))

		rr := env.do(t, http.MethodGet, "/catalog/search", token, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "term is required")
	})

	t.Run("upstream failure", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "a@x.io")
		env.catalog.On("Search", mock.Anything, "x").Return(nil, fmt.Errorf("%w: status 503", catalog.ErrUpstream))

		rr := env.do(t, http.MethodGet, "/catalog/search?term=x", token, nil)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.JSONEq(t, `{"error":"operation failed"}`, rr.Body.String())
	})
}

func TestCatalogAlbums(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "a@x.io")

	env.catalog.On("FeaturedAlbums", mock.Anything).Return("rock", []catalog.Album{{CollectionID: 3}}, nil)
	env.catalog.On("Lookup", mock.Anything, int64(3)).Return([]catalog.Track{{TrackID: 30}}, nil)
	env.catalog.On("Lookup", mock.Anything, int64(4)).Return(nil, errors.New("timeout"))

	rr := env.do(t, http.MethodGet, "/catalog/albums", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"keyword":"rock"`)

	rr = env.do(t, http.MethodGet, "/catalog/albums/3/tracks", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"trackId":30`)

	rr = env.do(t, http.MethodGet, "/catalog/albums/4/tracks", token, nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = env.do(t, http.MethodGet, "/catalog/albums/x/tracks", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env.catalog.AssertExpectations(t)
}
