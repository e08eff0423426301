package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

var errUnloaded = errors.New("sound unloaded")

// HTTPPlayer streams previews over HTTP. The sound owns the response body
// until it is unloaded; decoding and output are left to whoever reads it.
type HTTPPlayer struct {
	client *http.Client
}

func NewHTTPPlayer(client *http.Client) *HTTPPlayer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPlayer{client: client}
}

func (p *HTTPPlayer) Load(ctx context.Context, url string) (Sound, error) {
	if url == "" {
		return nil, ErrNoPreview
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("preview status %d", resp.StatusCode)
	}
	return &StreamSound{body: resp.Body}, nil
}

// StreamSound is a preview held open as a byte stream.
type StreamSound struct {
	mu      sync.Mutex
	body    io.ReadCloser
	playing bool
}

func (s *StreamSound) Play() error  { return s.setPlaying(true) }
func (s *StreamSound) Pause() error { return s.setPlaying(false) }
func (s *StreamSound) Stop() error  { return s.setPlaying(false) }

func (s *StreamSound) setPlaying(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == nil {
		return errUnloaded
	}
	s.playing = v
	return nil
}

func (s *StreamSound) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Read drains the preview while it is loaded.
func (s *StreamSound) Read(p []byte) (int, error) {
	s.mu.Lock()
	body := s.body
	s.mu.Unlock()
	if body == nil {
		return 0, errUnloaded
	}
	return body.Read(p)
}

func (s *StreamSound) Unload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body, s.playing = nil, false
	return err
}
