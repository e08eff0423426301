package playlist

import "github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"

// Playlist is a user-made, ordered list of track copies. No two songs share
// a trackId.
type Playlist struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Songs []catalog.Track `json:"songs"`
}

// Changes is a partial update of a playlist. A nil field is left as is.
type Changes struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// Result tells the caller whether the target playlist existed and whether
// the call changed anything.
type Result struct {
	Found   bool `json:"found"`
	Changed bool `json:"changed"`
}

func (p Playlist) indexOf(trackID int64) int {
	for i, s := range p.Songs {
		if s.TrackID == trackID {
			return i
		}
	}
	return -1
}

// Has reports whether the playlist already holds trackID.
func (p Playlist) Has(trackID int64) bool { return p.indexOf(trackID) >= 0 }
