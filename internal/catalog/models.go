package catalog

import "encoding/json"

// Track is a song record as the catalog returns it. Playlists embed copies of
// it by value, so the JSON names match the catalog wire format.
type Track struct {
	WrapperType      string   `json:"wrapperType,omitempty"`
	Kind             string   `json:"kind,omitempty"`
	TrackID          int64    `json:"trackId"`
	TrackName        string   `json:"trackName"`
	ArtistName       string   `json:"artistName"`
	CollectionID     int64    `json:"collectionId,omitempty"`
	CollectionName   string   `json:"collectionName"`
	ArtworkURL100    string   `json:"artworkUrl100,omitempty"`
	PreviewURL       string   `json:"previewUrl,omitempty"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`
	PrimaryGenreName string   `json:"primaryGenreName,omitempty"`
	TrackTimeMillis  *int64   `json:"trackTimeMillis,omitempty"`
	TrackPrice       *float64 `json:"trackPrice,omitempty"`
	Currency         string   `json:"currency,omitempty"`
}

// HasPreview reports whether the track can be played from the catalog.
func (t Track) HasPreview() bool { return t.PreviewURL != "" }

// Album is an entry of an entity=album search.
type Album struct {
	CollectionID     int64  `json:"collectionId"`
	CollectionName   string `json:"collectionName"`
	ArtistName       string `json:"artistName"`
	ArtworkURL100    string `json:"artworkUrl100,omitempty"`
	ReleaseDate      string `json:"releaseDate,omitempty"`
	PrimaryGenreName string `json:"primaryGenreName,omitempty"`
	TrackCount       int    `json:"trackCount,omitempty"`
}

type searchResponse struct {
	ResultCount int             `json:"resultCount"`
	Results     json.RawMessage `json:"results"`
}
