package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/apperr"
)

// Mock HTTP Transport
type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(fn RoundTripFunc, opts ...Option) *Client {
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: fn})}, opts...)
	return NewClient("https://catalog.test/", time.Second, opts...)
}

const lookupBody = `{
	"resultCount": 3,
	"results": [
		{"wrapperType": "collection", "collectionId": 42, "collectionName": "Album"},
		{"wrapperType": "track", "trackId": 1, "trackName": "One", "artistName": "A", "collectionId": 42, "collectionName": "Album", "previewUrl": "https://p/1.m4a", "trackTimeMillis": 180000},
		{"wrapperType": "track", "trackId": 2, "trackName": "Two", "artistName": "A", "collectionId": 42, "collectionName": "Album"}
	]
}`

func TestSearch(t *testing.T) {
	var gotURL string
	c := newTestClient(func(req *http.Request) *http.Response {
		gotURL = req.URL.String()
		return jsonResponse(200, `{"resultCount":1,"results":[{"wrapperType":"track","trackId":100,"trackName":"Song","artistName":"Band","trackPrice":1.29,"currency":"USD"}]}`)
	})

	tracks, err := c.Search(context.Background(), "  daft punk ")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, int64(100), tracks[0].TrackID)
	assert.Equal(t, "Song", tracks[0].TrackName)
	require.NotNil(t, tracks[0].TrackPrice)
	assert.Equal(t, 1.29, *tracks[0].TrackPrice)
	assert.False(t, tracks[0].HasPreview())
	assert.Equal(t, "https://catalog.test/search?entity=song&term=daft+punk", gotURL)
}

func TestSearch_Validation(t *testing.T) {
	c := newTestClient(func(req *http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})
	_, err := c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.Search(context.Background(), strings.Repeat("a", 201))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSearch_EmptyResults(t *testing.T) {
	c := newTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(200, `{"resultCount":0,"results":[]}`)
	})
	tracks, err := c.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}

func TestSearch_UpstreamError(t *testing.T) {
	c := newTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(503, `oops`)
	})
	_, err := c.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestLookup_FiltersTracks(t *testing.T) {
	var gotURL string
	c := newTestClient(func(req *http.Request) *http.Response {
		gotURL = req.URL.String()
		return jsonResponse(200, lookupBody)
	})

	tracks, err := c.Lookup(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "One", tracks[0].TrackName)
	assert.Equal(t, int64(180000), *tracks[0].TrackTimeMillis)
	assert.True(t, tracks[0].HasPreview())
	assert.Nil(t, tracks[1].TrackTimeMillis)
	assert.Equal(t, "https://catalog.test/lookup?entity=song&id=42", gotURL)

	_, err = c.Lookup(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestFeaturedAlbums(t *testing.T) {
	var gotURL string
	c := newTestClient(func(req *http.Request) *http.Response {
		gotURL = req.URL.String()
		return jsonResponse(200, `{"results":[{"collectionId":7,"collectionName":"Summer Hits","artistName":"Various"}]}`)
	})
	c.pick = func(n int) int { return 3 }

	kw, albums, err := c.FeaturedAlbums(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "summer", kw)
	require.Len(t, albums, 1)
	assert.Equal(t, int64(7), albums[0].CollectionID)
	assert.Contains(t, gotURL, "entity=album")
}

func TestRedisCache_ServesRepeatedRequests(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	c := newTestClient(func(req *http.Request) *http.Response {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(200, lookupBody)
	}, WithCache(NewRedisCache(rdb, "catalog:", time.Minute, nil)))

	for i := 0; i < 3; i++ {
		tracks, err := c.Lookup(context.Background(), 42)
		require.NoError(t, err)
		assert.Len(t, tracks, 2)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	mr.FastForward(2 * time.Minute)
	_, err = c.Lookup(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_CollapsesConcurrentRequests(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := newTestClient(func(req *http.Request) *http.Response {
		atomic.AddInt32(&calls, 1)
		<-release
		return jsonResponse(200, lookupBody)
	})
	var joined sync.WaitGroup
	joined.Add(5)
	c.onJoin = func(string) { joined.Done() }

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracks, err := c.Lookup(context.Background(), 42)
			assert.NoError(t, err)
			assert.Len(t, tracks, 2)
		}()
	}
	joined.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := newTestClient(func(req *http.Request) *http.Response {
		atomic.AddInt32(&calls, 1)
		<-release
		if req.Context().Err() != nil {
			return jsonResponse(500, `{}`)
		}
		return jsonResponse(200, lookupBody)
	})
	var joined sync.WaitGroup
	joined.Add(2)
	c.onJoin = func(string) { joined.Done() }

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := c.Lookup(ctxA, 42)
		errA <- err
	}()

	type result struct {
		tracks []Track
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		tracks, err := c.Lookup(context.Background(), 42)
		resB <- result{tracks, err}
	}()

	joined.Wait()
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Len(t, b.tracks, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
