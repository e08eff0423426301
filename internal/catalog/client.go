// Package catalog talks to the public music catalog: free-text search and
// album track lookup.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/apperr"
)

const (
	EntitySong  = "song"
	EntityAlbum = "album"

	maxTermLen = 200
)

var ErrUpstream = errors.New("catalog upstream error")

// FeaturedKeywords seed the album feed on the home screen.
var FeaturedKeywords = []string{"rap", "rock", "love", "summer", "hiphop", "pop", "electro"}

// Catalog is what views depend on.
type Catalog interface {
	Search(ctx context.Context, term string) ([]Track, error)
	SearchAlbums(ctx context.Context, term string) ([]Album, error)
	Lookup(ctx context.Context, collectionID int64) ([]Track, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	group   singleflight.Group
	log     *zap.Logger
	pick    func(n int) int
	onJoin  func(key string)
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func WithCache(cache Cache) Option { return func(c *Client) { c.cache = cache } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		cache:  noCache{},
		log:    zap.NewNop(),
		pick:   rand.Intn,
		onJoin: func(string) {},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search returns songs matching term.
func (c *Client) Search(ctx context.Context, term string) ([]Track, error) {
	term, err := cleanTerm(term)
	if err != nil {
		return nil, err
	}
	val := url.Values{}
	val.Set("term", term)
	val.Set("entity", EntitySong)

	out := []Track{}
	if err := c.fetch(ctx, "/search", val, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchAlbums returns albums matching term.
func (c *Client) SearchAlbums(ctx context.Context, term string) ([]Album, error) {
	term, err := cleanTerm(term)
	if err != nil {
		return nil, err
	}
	val := url.Values{}
	val.Set("term", term)
	val.Set("entity", EntityAlbum)

	out := []Album{}
	if err := c.fetch(ctx, "/search", val, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FeaturedAlbums searches albums for a random featured keyword.
func (c *Client) FeaturedAlbums(ctx context.Context) (string, []Album, error) {
	kw := FeaturedKeywords[c.pick(len(FeaturedKeywords))]
	albums, err := c.SearchAlbums(ctx, kw)
	return kw, albums, err
}

// Lookup returns the songs of an album. The collection record the catalog
// sends first is dropped.
func (c *Client) Lookup(ctx context.Context, collectionID int64) ([]Track, error) {
	if collectionID <= 0 {
		return nil, apperr.Validation("collection id must be positive")
	}
	val := url.Values{}
	val.Set("id", strconv.FormatInt(collectionID, 10))
	val.Set("entity", EntitySong)

	var items []Track
	if err := c.fetch(ctx, "/lookup", val, &items); err != nil {
		return nil, err
	}
	out := make([]Track, 0, len(items))
	for _, it := range items {
		if it.WrapperType == "track" {
			out = append(out, it)
		}
	}
	return out, nil
}

func cleanTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", apperr.Validation("search term is required")
	}
	if len(term) > maxTermLen {
		return "", apperr.Validation("search term is too long")
	}
	return term, nil
}

// fetch decodes the results array of path?val into out. Identical requests in
// flight share one upstream call, and bodies are cached when a cache is set.
// The shared call is not tied to any one caller's context; a caller that gives
// up returns its own ctx error while the others keep waiting.
func (c *Client) fetch(ctx context.Context, path string, val url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + val.Encode()

	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(reqURL, func() (any, error) {
		if b, ok := c.cache.Get(flight, reqURL); ok {
			return b, nil
		}
		b, err := c.get(flight, reqURL)
		if err != nil {
			return nil, err
		}
		c.cache.Put(flight, reqURL, b)
		return b, nil
	})
	c.onJoin(reqURL)

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	if res.Err != nil {
		return res.Err
	}

	var resp searchResponse
	if err := json.Unmarshal(res.Val.([]byte), &resp); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(resp.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Results, out); err != nil {
		return fmt.Errorf("%w: decode results: %v", ErrUpstream, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("catalog non-200", zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return raw, nil
}
